package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interactors-overlay/internal/domain"
)

func TestNewCatalog(t *testing.T) {
	t.Run("rejects duplicate names ignoring case", func(t *testing.T) {
		_, err := NewCatalog([]Entry{{Name: "IntAct"}, {Name: "intact"}}, "")
		assert.Error(t, err)
	})

	t.Run("rejects unnamed entries", func(t *testing.T) {
		_, err := NewCatalog([]Entry{{Name: " "}}, "")
		assert.Error(t, err)
	})

	t.Run("does not share the caller's template map", func(t *testing.T) {
		templates := map[string]string{"X": "https://x/" + Placeholder}
		catalog, err := NewCatalog([]Entry{{Name: "x", InteractionTemplates: templates}}, "")
		require.NoError(t, err)

		templates["X"] = "changed"
		entry, err := catalog.Lookup("X")
		require.NoError(t, err)
		assert.Equal(t, "https://x/"+Placeholder, entry.InteractionTemplates["X"])
	})
}

func TestCatalog_Lookup(t *testing.T) {
	catalog := DefaultCatalog()

	entry, err := catalog.Lookup("  MENTHA ")
	require.NoError(t, err)
	assert.Equal(t, "mentha", entry.Name)
	assert.True(t, entry.HasInteractionURL())
	assert.False(t, entry.Multivalue)

	_, err = catalog.Lookup("reactome")
	assert.True(t, errors.Is(err, domain.ErrUnknownResource))

	assert.Contains(t, catalog.Names(), "intact")
	assert.Equal(t, DefaultInteractionURL, catalog.DefaultInteraction())
}

func TestFromConfig(t *testing.T) {
	t.Run("built-in entries when none configured", func(t *testing.T) {
		catalog, err := FromConfig(domain.ResourceConfig{})
		require.NoError(t, err)
		assert.Len(t, catalog.Names(), len(DefaultEntries()))
		assert.Equal(t, DefaultInteractionURL, catalog.DefaultInteraction())
	})

	t.Run("configured entries replace the built-in ones", func(t *testing.T) {
		catalog, err := FromConfig(domain.ResourceConfig{
			DefaultInteractionURL: "https://default/" + Placeholder,
			Entries: []domain.ResourceEntryConfig{{
				Name:         "Custom",
				Protein:      "https://p/" + Placeholder,
				Chemical:     "https://c/" + Placeholder,
				Interactions: map[string]string{"custom": "https://i/" + Placeholder},
				Multivalue:   true,
			}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Custom"}, catalog.Names())

		entry, err := catalog.Lookup("custom")
		require.NoError(t, err)
		assert.Equal(t, "https://i/"+Placeholder, entry.InteractionTemplates["CUSTOM"])
		assert.True(t, entry.Multivalue)
		assert.Equal(t, "https://default/"+Placeholder, catalog.DefaultInteraction())
	})
}
