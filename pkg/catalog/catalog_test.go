package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/harun/rcrm/pkg/toolregistry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	tools, err := Default()
	require.NoError(t, err)
	require.Len(t, tools, 19)

	names := make([]string, len(tools))
	for i, md := range tools {
		names[i] = md.Name
	}
	assert.Equal(t, []string{
		"global_search",
		"boolean_search_candidates",
		"advanced_search_candidates",
		"candidate_job_assignment_search",
		"get_team_performance_report",
		"create_meeting",
		"create_note",
		"add_to_hotlist",
		"send_email",
		"get_available_hiring_stages",
		"get_available_users",
		"get_available_kpis",
		"get_note_types",
		"get_candidate_search_fields",
		"create_gmeet_link",
		"check_calendar_meetings",
		"preview_email",
		"get_current_time_and_timezone",
		"boolean_search_count",
	}, names)
}

func TestDefault_ToolContracts(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	t.Run("category sizes", func(t *testing.T) {
		assert.Len(t, reg.ToolsByCategory(toolregistry.CategorySearch), 3)
		assert.Len(t, reg.ToolsByCategory(toolregistry.CategoryReports), 2)
		assert.Len(t, reg.ToolsByCategory(toolregistry.CategoryActions), 3)
		assert.Len(t, reg.ToolsByCategory(toolregistry.CategoryCommunication), 1)
		assert.Len(t, reg.ToolsByCategory(toolregistry.CategoryHelpers), 10)
	})

	t.Run("create_meeting", func(t *testing.T) {
		md, err := reg.Get("create_meeting")
		require.NoError(t, err)
		assert.True(t, md.RequiresConfirmation)
		assert.Equal(t, []string{"appointment"}, md.RequiredParams)
		assert.Equal(t, []string{"global_search", "get_available_users", "create_gmeet_link", "check_calendar_meetings"}, md.HelperTools)
		assert.Equal(t, "Search entity → Check calendar → Create gmeet → Create meeting", md.TypicalUsagePattern)
	})

	t.Run("boolean operators kept as keywords", func(t *testing.T) {
		md, err := reg.Get("boolean_search_candidates")
		require.NoError(t, err)
		assert.Equal(t, []string{"boolean", "advanced search", "candidates", "skills", "AND", "OR"}, md.Keywords)
	})

	t.Run("confirmation flags", func(t *testing.T) {
		confirming := []string{}
		for _, md := range reg.List() {
			if md.RequiresConfirmation {
				confirming = append(confirming, md.Name)
			}
		}
		assert.Equal(t, []string{"create_meeting", "add_to_hotlist", "send_email"}, confirming)
	})

	t.Run("helper keywords derive from names", func(t *testing.T) {
		want := map[string]string{
			"get_available_hiring_stages":   "available hiring stages",
			"get_current_time_and_timezone": "current time and timezone",
			"create_gmeet_link":             "create gmeet link",
			"boolean_search_count":          "boolean search count",
		}
		for name, keyword := range want {
			md, err := reg.Get(name)
			require.NoError(t, err)
			assert.Equal(t, []string{keyword}, md.Keywords, name)
			assert.Empty(t, md.HelperTools, name)
			assert.False(t, md.RequiresConfirmation, name)
		}
	})

	t.Run("unresolved helper references", func(t *testing.T) {
		assert.Equal(t, map[string][]string{
			"get_team_performance_report": {"get_active_recruiters"},
		}, reg.MissingHelpers())
	})
}

func TestParse(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		tools, err := Parse([]byte(`
tools:
  - name: create_note
    category: actions
    description: Create a note
    keywords: [note]
    helper_tools: [global_search]
`))
		require.NoError(t, err)
		require.Len(t, tools, 1)
		assert.Equal(t, toolregistry.CategoryActions, tools[0].Category)
		assert.Equal(t, []string{"global_search"}, tools[0].HelperTools)
		assert.False(t, tools[0].RequiresConfirmation)
	})

	t.Run("json is valid yaml", func(t *testing.T) {
		tools, err := Parse([]byte(`{"tools":[{"name":"x","category":"helpers","description":"d"}]}`))
		require.NoError(t, err)
		require.Len(t, tools, 1)
		assert.Equal(t, "x", tools[0].Name)
	})

	tests := []struct {
		name string
		doc  string
	}{
		{"unknown category", "tools:\n  - {name: x, category: shell, description: d}\n"},
		{"missing name", "tools:\n  - {category: search, description: d}\n"},
		{"empty name", "tools:\n  - {name: '', category: search, description: d}\n"},
		{"unknown field", "tools:\n  - {name: x, category: search, description: d, color: red}\n"},
		{"keywords not a list", "tools:\n  - {name: x, category: search, description: d, keywords: find}\n"},
		{"missing tools", "other: 1\n"},
		{"empty document", ""},
		{"malformed yaml", "tools: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalog), err.Error())
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, recruitCRM, 0644))

		tools, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, tools, 19)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read catalog")
	})
}
