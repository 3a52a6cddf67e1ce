package rules_test

import (
	"testing"

	"github.com/avalonia-tools/avalint/rules"
	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test that registering an undeclared type is flagged per type argument
func TestRuleUnknownRegistration_UndeclaredTypeFlagged(t *testing.T) {
	findings := runRule(rules.NewRuleUnknownRegistration(), map[string]string{
		"Composition/Bootstrapper.cs": `namespace SampleApp.Composition
{
    public class Bootstrapper
    {
        public void Configure(IServiceCollection services)
        {
            services.AddSingleton<IAudioPlayer, AudioPlayer>();
        }
    }
}
`,
		"Services/IAudioPlayer.cs": `namespace SampleApp.Services
{
    public interface IAudioPlayer
    {
        void Play(string path);
    }
}
`,
	})

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, rules.RuleRegisteredTypeUnknownID, f.RuleID)
	assert.Equal(t, models.SeverityWarning, f.Severity)
	assert.Equal(t, "Composition/Bootstrapper.cs", f.Path)
	assert.Equal(t, 7, f.Line)
	assert.Equal(t, `AddSingleton registers "AudioPlayer" which is not declared in the scanned set`, f.Message)
}

// Test that the typeof overload resolves against declared types
func TestRuleUnknownRegistration_TypeofFormResolved(t *testing.T) {
	findings := runRule(rules.NewRuleUnknownRegistration(), map[string]string{
		"Composition/Bootstrapper.cs": `namespace SampleApp.Composition
{
    public class Bootstrapper
    {
        public void Configure(IServiceCollection services)
        {
            services.AddScoped(typeof(IDialogService), typeof(DialogService));
        }
    }
}
`,
		"Services/DialogService.cs": `namespace SampleApp.Services
{
    public interface IDialogService
    {
        void Show(string message);
    }

    public class DialogService : IDialogService
    {
        public void Show(string message)
        {
        }
    }
}
`,
	})

	assert.Empty(t, findings)
}

// Test that framework types and generic parameters are never flagged
func TestRuleUnknownRegistration_FrameworkAndGenericSkipped(t *testing.T) {
	findings := runRule(rules.NewRuleUnknownRegistration(), map[string]string{
		"Composition/ServiceCollectionExtensions.cs": `namespace SampleApp.Composition
{
    public static class ServiceCollectionExtensions
    {
        public static void AddView<TView, TViewModel>(IServiceCollection services)
        {
            services.AddTransient<TView>();
            services.AddTransient<TViewModel>();
            services.AddSingleton<HttpClient>();
            services.AddSingleton<ILogger>();
        }
    }
}
`,
	})

	assert.Empty(t, findings)
}
