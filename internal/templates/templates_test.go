package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/chorebook/internal/domain"
)

func TestBuiltin(t *testing.T) {
	c := Builtin()
	assert.Len(t, c.Templates, 13)
	require.Len(t, c.Categories, 4)

	total := 0
	for _, cat := range c.Categories {
		n := len(c.InCategory(cat.ID))
		assert.NotZero(t, n, cat.ID)
		total += n
	}
	assert.Equal(t, len(c.Templates), total, "every template belongs to a known category")

	homework, err := c.Find("do HOMEWORK")
	require.NoError(t, err)
	assert.Equal(t, "15:00", homework.Time)
	assert.Equal(t, []domain.Weekday{1, 2, 3, 4, 5}, homework.Days)

	_, err = c.Find("juggle")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTemplateSpec(t *testing.T) {
	tmpl, err := Builtin().Find("Walk the dog")
	require.NoError(t, err)

	task, err := domain.NewTask(tmpl.Spec(), "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, "Walk the dog", task.Name)
	assert.Equal(t, "09:00", task.NotificationTime)
	assert.Equal(t, []domain.Weekday{domain.Saturday, domain.Sunday}, task.DaysOfWeek)
}

func TestLoadUserFile(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Len(t, c.Templates, 13)

	path := filepath.Join(dir, "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - id: garden
    label: Garden
templates:
  - name: Water plants
    category: garden
    time: "08:00"
    days: [3, 1]
  - name: walk the dog
    category: weekend
    time: "08:30"
    days: [6, 7]
`), 0o644))

	c, err = Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Templates, 14)
	assert.Len(t, c.Categories, 5)

	water, err := c.Find("water plants")
	require.NoError(t, err)
	assert.Equal(t, []domain.Weekday{domain.Monday, domain.Wednesday}, water.Days)

	dog, err := c.Find("Walk the dog")
	require.NoError(t, err)
	assert.Equal(t, "08:30", dog.Time, "user templates override builtins")

	require.NoError(t, os.WriteFile(path, []byte("templates:\n  - name: Broken\n    days: [9]\n"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidWeekday)
}
