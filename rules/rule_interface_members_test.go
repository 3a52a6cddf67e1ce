package rules_test

import (
	"testing"

	"github.com/avalonia-tools/avalint/rules"
	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const navigationInterface = `namespace SampleApp.Services
{
    public interface INavigationService
    {
        void NavigateTo(string route);

        void GoBack();

        string CurrentRoute { get; }
    }
}
`

// Test that missing interface methods and properties are flagged by name
func TestRuleInterfaceMembers_MissingMembersFlagged(t *testing.T) {
	findings := runRule(rules.NewRuleInterfaceMembers(), map[string]string{
		"Services/INavigationService.cs": navigationInterface,
		"Services/NavigationService.cs": `namespace SampleApp.Services
{
    public class NavigationService : INavigationService
    {
        public void NavigateTo(string route)
        {
        }
    }
}
`,
	})

	require.Len(t, findings, 2)
	assert.Equal(t, []string{
		`NavigationService implements INavigationService but is missing member "GoBack" (Services/INavigationService.cs)`,
		`NavigationService implements INavigationService but is missing member "CurrentRoute" (Services/INavigationService.cs)`,
	}, messages(findings))

	f := findings[0]
	assert.Equal(t, rules.RuleInterfaceMemberMissingID, f.RuleID)
	assert.Equal(t, models.SeverityWarning, f.Severity)
	assert.Equal(t, "Services/NavigationService.cs", f.Path)
	assert.Equal(t, 3, f.Line)
	assert.Equal(t, `implement "GoBack" or drop INavigationService from the base list`, f.Suggestion)
}

// Test that members inherited from a scanned base class satisfy the interface
func TestRuleInterfaceMembers_InheritedMembersSatisfy(t *testing.T) {
	findings := runRule(rules.NewRuleInterfaceMembers(), map[string]string{
		"Services/INavigationService.cs": navigationInterface,
		"Services/HistoryTracker.cs": `namespace SampleApp.Services
{
    public class HistoryTracker
    {
        public void GoBack()
        {
        }

        public string CurrentRoute { get; private set; }
    }
}
`,
		"Services/NavigationService.cs": `namespace SampleApp.Services
{
    public class NavigationService : HistoryTracker, INavigationService
    {
        public void NavigateTo(string route)
        {
        }
    }
}
`,
	})

	assert.Empty(t, findings)
}

// Test that interfaces outside the scanned set are never checked
func TestRuleInterfaceMembers_ExternalInterfacesSkipped(t *testing.T) {
	findings := runRule(rules.NewRuleInterfaceMembers(), map[string]string{
		"Services/ResourceHolder.cs": `namespace SampleApp.Services
{
    public class ResourceHolder : IDisposable, IAsyncDisposable
    {
        public void Dispose()
        {
        }
    }
}
`,
	})

	assert.Empty(t, findings)
}

// Test that a degraded interface unit is not trusted to prove absence
func TestRuleInterfaceMembers_DegradedInterfaceSkipped(t *testing.T) {
	findings := runRule(rules.NewRuleInterfaceMembers(), map[string]string{
		"Services/INavigationService.cs": `namespace SampleApp.Services
{
    public interface INavigationService
    {
        void GoBack();
`,
		"Services/NavigationService.cs": `namespace SampleApp.Services
{
    public class NavigationService : INavigationService
    {
    }
}
`,
	})

	assert.Empty(t, findings)
}
