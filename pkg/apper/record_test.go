package apper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordAccessors(t *testing.T) {
	rec := Record{
		"Id":       float64(42),
		"Name":     "Acme",
		"title_c":  "",
		"value_c":  float64(1250.5),
		"count_c":  "17",
		"badnum_c": "not a number",
	}

	assert.Equal(t, 42, rec.ID())
	assert.Equal(t, "Acme", rec.String("Name"))
	assert.Equal(t, "", rec.String("missing"))
	assert.Equal(t, 1250.5, rec.Float("value_c"))
	assert.Equal(t, float64(17), rec.Float("count_c"))
	assert.Equal(t, float64(0), rec.Float("badnum_c"))
	assert.Equal(t, 17, rec.Int("count_c"))
}

func TestRecordFirstString(t *testing.T) {
	rec := Record{"title_c": "", "Name": "fallback"}
	assert.Equal(t, "fallback", rec.FirstString("title_c", "Name"))
	assert.Equal(t, "", rec.FirstString("missing", "title_c"))
}

func TestRecordLookup(t *testing.T) {
	t.Run("object form", func(t *testing.T) {
		rec := Record{"company_id_c": map[string]any{"Id": float64(9), "Name": "Globex"}}
		id, name, ok := rec.Lookup("company_id_c")
		assert.True(t, ok)
		assert.Equal(t, 9, id)
		assert.Equal(t, "Globex", name)
	})

	t.Run("bare id", func(t *testing.T) {
		rec := Record{"contact_id_c": float64(3)}
		id, name, ok := rec.Lookup("contact_id_c")
		assert.True(t, ok)
		assert.Equal(t, 3, id)
		assert.Empty(t, name)
	})

	t.Run("numeric string", func(t *testing.T) {
		rec := Record{"deal_id_c": "12"}
		id, _, ok := rec.Lookup("deal_id_c")
		assert.True(t, ok)
		assert.Equal(t, 12, id)
	})

	t.Run("absent", func(t *testing.T) {
		_, _, ok := Record{}.Lookup("company_id_c")
		assert.False(t, ok)
	})

	t.Run("nil value", func(t *testing.T) {
		rec := Record{"company_id_c": nil}
		_, _, ok := rec.Lookup("company_id_c")
		assert.False(t, ok)
	})
}

func TestRecordHas(t *testing.T) {
	rec := Record{"present": "x", "nilval": nil}
	assert.True(t, rec.Has("present"))
	assert.False(t, rec.Has("nilval"))
	assert.False(t, rec.Has("absent"))
}
