package toolregistry

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meetingTool() ToolMetadata {
	return ToolMetadata{
		Name:                 "create_meeting",
		Category:             CategoryActions,
		Description:          "Create a meeting or appointment in RecruitCRM",
		Keywords:             []string{"schedule", "meeting", "appointment", "interview", "call"},
		RequiredParams:       []string{"appointment"},
		OptionalParams:       []string{"action_source"},
		HelperTools:          []string{"global_search", "get_available_users", "create_gmeet_link", "check_calendar_meetings"},
		RequiresConfirmation: true,
		TypicalUsagePattern:  "Search entity → Check calendar → Create gmeet → Create meeting",
	}
}

func helperTool(name, desc string) ToolMetadata {
	return ToolMetadata{
		Name:        name,
		Category:    CategoryHelpers,
		Description: desc,
		Keywords:    []string{name},
	}
}

func TestRegistry_New(t *testing.T) {
	reg := New([]ToolMetadata{
		meetingTool(),
		helperTool("create_gmeet_link", "Generate Google Meet link"),
	})

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"create_meeting", "create_gmeet_link"}, reg.Names())
	assert.True(t, reg.Has("create_meeting"))
	assert.False(t, reg.Has("send_email"))
}

func TestRegistry_Get(t *testing.T) {
	reg := New([]ToolMetadata{meetingTool()})

	t.Run("existing tool", func(t *testing.T) {
		md, err := reg.Get("create_meeting")
		require.NoError(t, err)
		assert.Equal(t, CategoryActions, md.Category)
		assert.True(t, md.RequiresConfirmation)
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := reg.Get("nonexistent_tool")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrToolNotFound))
		assert.Contains(t, err.Error(), "nonexistent_tool")
	})

	t.Run("returned metadata is a copy", func(t *testing.T) {
		md, err := reg.Get("create_meeting")
		require.NoError(t, err)
		md.Keywords[0] = "mutated"
		md.HelperTools = append(md.HelperTools[:0], "other")

		again, err := reg.Get("create_meeting")
		require.NoError(t, err)
		assert.Equal(t, "schedule", again.Keywords[0])
		assert.Equal(t, "global_search", again.HelperTools[0])
	})
}

func TestRegistry_ToolsByCategory(t *testing.T) {
	reg := New([]ToolMetadata{
		helperTool("get_available_users", "Get list of active users/recruiters"),
		meetingTool(),
		helperTool("get_note_types", "Get list of note types"),
	})

	t.Run("registration order", func(t *testing.T) {
		helpers := reg.ToolsByCategory(CategoryHelpers)
		require.Len(t, helpers, 2)
		assert.Equal(t, "get_available_users", helpers[0].Name)
		assert.Equal(t, "get_note_types", helpers[1].Name)
	})

	t.Run("empty category", func(t *testing.T) {
		assert.Empty(t, reg.ToolsByCategory(CategoryReports))
	})

	t.Run("unknown category", func(t *testing.T) {
		assert.Empty(t, reg.ToolsByCategory(Category("bogus")))
	})

	t.Run("register then lookup round trip", func(t *testing.T) {
		reg := New(nil)
		reg.Register(helperTool("get_available_kpis", "Get list of available KPIs for reports"))
		reg.Register(helperTool("boolean_search_count", "Get count for boolean search"))

		helpers := reg.ToolsByCategory(CategoryHelpers)
		require.Len(t, helpers, 2)
		assert.Equal(t, "boolean_search_count", helpers[1].Name)

		count := 0
		for _, md := range helpers {
			if md.Name == "get_available_kpis" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	first := helperTool("alpha", "first")
	second := ToolMetadata{Name: "alpha", Category: CategoryReports, Description: "second"}

	reg := New([]ToolMetadata{first, helperTool("beta", "beta"), second})

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"alpha", "beta"}, reg.Names(), "overwrite keeps original position")

	md, err := reg.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "second", md.Description, "last registration wins")

	reports := reg.ToolsByCategory(CategoryReports)
	require.Len(t, reports, 1)
	assert.Equal(t, "alpha", reports[0].Name)
}

func TestRegistry_PlanFor(t *testing.T) {
	reg := New([]ToolMetadata{
		{
			Name:                 "send_email",
			Category:             CategoryCommunication,
			Description:          "Send email to candidates, contacts, or other entities",
			HelperTools:          []string{"global_search", "preview_email"},
			RequiresConfirmation: true,
			TypicalUsagePattern:  "Search recipients → Preview email → Confirm → Send email",
		},
		helperTool("global_search", "Search"),
		helperTool("preview_email", "Preview email before sending"),
	})

	t.Run("helpers then primary", func(t *testing.T) {
		plan, err := reg.PlanFor("send_email")
		require.NoError(t, err)

		assert.Equal(t, "send_email", plan.PrimaryTool)
		assert.Equal(t, []string{"global_search", "preview_email"}, plan.HelperTools)
		assert.True(t, plan.RequiresConfirmation)
		assert.Equal(t, "Search recipients → Preview email → Confirm → Send email", plan.TypicalPattern)

		require.Len(t, plan.ExecutionOrder, 3)
		assert.Equal(t, PlanEntry{Tool: "global_search", Purpose: "Get required data for send_email", Required: true}, plan.ExecutionOrder[0])
		assert.Equal(t, PlanEntry{Tool: "preview_email", Purpose: "Get required data for send_email", Required: true}, plan.ExecutionOrder[1])
		assert.Equal(t, PlanEntry{Tool: "send_email", Purpose: "Execute main action", Required: true, RequiresConfirmation: true}, plan.ExecutionOrder[2])
	})

	t.Run("tool without helpers", func(t *testing.T) {
		plan, err := reg.PlanFor("preview_email")
		require.NoError(t, err)
		require.Len(t, plan.ExecutionOrder, 1)
		assert.Equal(t, "preview_email", plan.ExecutionOrder[0].Tool)
		assert.False(t, plan.ExecutionOrder[0].RequiresConfirmation)
		assert.Empty(t, plan.HelperTools)
	})

	t.Run("unknown tool", func(t *testing.T) {
		plan, err := reg.PlanFor("nonexistent_tool")
		assert.Nil(t, plan)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrToolNotFound))
		assert.Equal(t, "tool nonexistent_tool not found", err.Error())
	})
}

func TestRegistry_MissingHelpers(t *testing.T) {
	reg := New([]ToolMetadata{
		meetingTool(),
		helperTool("global_search", "Search"),
		helperTool("create_gmeet_link", "Generate Google Meet link"),
	})

	missing := reg.MissingHelpers()
	assert.Equal(t, map[string][]string{
		"create_meeting": {"get_available_users", "check_calendar_meetings"},
	}, missing)
}
