package rules_test

import (
	"testing"

	"github.com/avalonia-tools/avalint/rules"
	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test that an unregistered service is flagged once a container is in use
func TestRuleUnregisteredService_MissingRegistrationFlagged(t *testing.T) {
	findings := runRule(rules.NewRuleUnregisteredService(), map[string]string{
		"Composition/Bootstrapper.cs": `namespace SampleApp.Composition
{
    public class Bootstrapper
    {
        public void Configure(IServiceCollection services)
        {
            services.AddSingleton<INavigationService, NavigationService>();
            services.AddTransient<MainWindowViewModel>();
        }
    }
}
`,
		"Services/NavigationService.cs": `namespace SampleApp.Services
{
    public class NavigationService
    {
    }
}
`,
		"ViewModels/MainWindowViewModel.cs": `namespace SampleApp.ViewModels
{
    public class MainWindowViewModel
    {
    }
}
`,
		"Services/ExportService.cs": `namespace SampleApp.Services
{
    public class ExportService
    {
    }
}
`,
	})

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, rules.RuleServiceNotRegisteredID, f.RuleID)
	assert.Equal(t, models.SeverityWarning, f.Severity)
	assert.Equal(t, "Services/ExportService.cs", f.Path)
	assert.Equal(t, 3, f.Line)
	assert.Equal(t, "ExportService is never registered with the DI container", f.Message)
	assert.Equal(t, "register ExportService (AddSingleton/AddTransient/Register) or rename it if it is not a service", f.Suggestion)
}

// Test that the rule stays silent in a tree without any container use
func TestRuleUnregisteredService_NoContainerNoFindings(t *testing.T) {
	findings := runRule(rules.NewRuleUnregisteredService(), map[string]string{
		"Services/ExportService.cs": `namespace SampleApp.Services
{
    public class ExportService
    {
    }
}
`,
	})

	assert.Empty(t, findings)
}

// Test that bare suffixes, static and nested classes are not DI citizens
func TestRuleUnregisteredService_NonCitizensSkipped(t *testing.T) {
	findings := runRule(rules.NewRuleUnregisteredService(), map[string]string{
		"Composition/Bootstrapper.cs": `namespace SampleApp.Composition
{
    public class Bootstrapper
    {
        public void Configure(IServiceCollection services)
        {
            services.AddSingleton<ThemeService>();
        }
    }
}
`,
		"Services/ThemeService.cs": `namespace SampleApp.Services
{
    public class ThemeService
    {
    }
}
`,
		"Infrastructure/Plumbing.cs": `namespace SampleApp.Infrastructure
{
    public class Service
    {
    }

    public static class ClipboardService
    {
    }

    public class Host
    {
        public class NestedService
        {
        }
    }
}
`,
	})

	assert.Empty(t, findings)
}
