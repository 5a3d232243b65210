package normalisers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestDefaultRegistryRoutes(t *testing.T) {
	registry := Default()

	n, err := registry.ForExtension(".pdf")
	require.NoError(t, err)
	assert.Contains(t, n.SupportedExtensions(), ".pdf")

	n, err = registry.ForExtension(".txt")
	require.NoError(t, err)
	assert.Contains(t, n.SupportedExtensions(), ".txt")
}

func TestUnsupportedExtension(t *testing.T) {
	registry := Default()

	_, err := registry.ForExtension(".docx")
	assert.ErrorIs(t, err, domain.ErrDocumentLoad)

	_, err = registry.ForExtension(".bin")
	assert.ErrorIs(t, err, domain.ErrDocumentLoad)
}

func TestExtensionsListsAll(t *testing.T) {
	exts := Default().Extensions()
	assert.Contains(t, exts, ".pdf")
	assert.Contains(t, exts, ".txt")
	assert.Contains(t, exts, ".md")
}
