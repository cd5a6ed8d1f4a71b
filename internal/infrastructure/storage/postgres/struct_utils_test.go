package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medistock/internal/core/entity"
	"medistock/internal/core/id"
)

type MockCatalog struct {
	entity.Catalog
	Category string `db:"category" json:"category"`
	Skipped  string `db:"-" json:"skipped"`
	NoTag    string
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[MockCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "code", "name", "category",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}

	assert.NotContains(t, cols, "-")
	assert.Len(t, cols, len(expectedCols))
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	cat := MockCatalog{
		Catalog: entity.Catalog{
			BaseCatalog: entity.BaseCatalog{
				BaseEntity: entity.BaseEntity{
					ID:           id.New(),
					DeletionMark: true,
					Version:      5,
				},
			},
			Code: "MED-2026-00001",
			Name: "Paracetamol 500mg",
		},
		Category: "Analgesic",
		Skipped:  "ignored",
		NoTag:    "ignored",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "MED-2026-00001", m["code"])
	assert.Equal(t, "Paracetamol 500mg", m["name"])
	assert.Equal(t, "Analgesic", m["category"])

	_, hasSkipped := m["skipped"]
	assert.False(t, hasSkipped)
}

func TestStructToMap_PointerInput(t *testing.T) {
	cat := &MockCatalog{Category: "Antibiotic"}
	m := StructToMap(cat)
	assert.Equal(t, "Antibiotic", m["category"])
}
