package rules_test

import (
	"testing"

	"github.com/avalonia-tools/avalint/rules"
	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test that a binding path missing from the view model is flagged
func TestRuleBindingTarget_MissingMemberFlagged(t *testing.T) {
	findings := runRule(rules.NewRuleBindingTarget(), map[string]string{
		"Views/MainWindow.axaml": `<Window xmlns="https://github.com/avaloniaui"
        x:Class="SampleApp.Views.MainWindow">
    <StackPanel>
        <TextBlock Text="{Binding Greeting}"/>
        <TextBlock Text="{Binding Missing}"/>
    </StackPanel>
</Window>
`,
		"ViewModels/MainWindowViewModel.cs": `namespace SampleApp.ViewModels
{
    public class MainWindowViewModel
    {
        public string Greeting { get; set; }
    }
}
`,
	})

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, rules.RuleBindingTargetMissingID, f.RuleID)
	assert.Equal(t, models.SeverityWarning, f.Severity)
	assert.Equal(t, "Views/MainWindow.axaml", f.Path)
	assert.Equal(t, 5, f.Line)
	assert.Equal(t, `binding "Missing" is not declared in MainWindowViewModel (ViewModels/MainWindowViewModel.cs)`, f.Message)
	assert.Equal(t, `declare "Missing" on MainWindowViewModel or fix the binding path`, f.Suggestion)
}

// Test that backing fields, base members and dotted paths all resolve
func TestRuleBindingTarget_FieldAndBaseMembersResolve(t *testing.T) {
	findings := runRule(rules.NewRuleBindingTarget(), map[string]string{
		"Views/Settings.axaml": `<UserControl xmlns="https://github.com/avaloniaui"
             x:Class="SampleApp.Views.Settings">
    <StackPanel>
        <TextBox Text="{Binding UserName}"/>
        <TextBlock Text="{Binding Title}"/>
        <TextBlock Text="{Binding Items.Count}"/>
    </StackPanel>
</UserControl>
`,
		"ViewModels/SettingsViewModel.cs": `namespace SampleApp.ViewModels
{
    public class SettingsViewModel : ViewModelBase
    {
        private string _userName;

        public ObservableCollection<string> Items { get; } = new();

        public void Save() { }
    }
}
`,
		"ViewModels/ViewModelBase.cs": `namespace SampleApp.ViewModels
{
    public class ViewModelBase
    {
        public string Title { get; set; }
    }
}
`,
	})

	assert.Empty(t, findings)
}

// Test that an unresolved or degraded pair keeps the rule silent
func TestRuleBindingTarget_UnprovablePairsStaySilent(t *testing.T) {
	// No code unit pairs with the markup at all
	findings := runRule(rules.NewRuleBindingTarget(), map[string]string{
		"Views/Orphan.axaml": `<UserControl xmlns="https://github.com/avaloniaui">
    <TextBlock Text="{Binding Whatever}"/>
</UserControl>
`,
	})
	assert.Empty(t, findings)

	// The paired view model parsed degraded, so absence is not provable
	findings = runRule(rules.NewRuleBindingTarget(), map[string]string{
		"Views/Foo.axaml": `<UserControl xmlns="https://github.com/avaloniaui">
    <TextBlock Text="{Binding Whatever}"/>
</UserControl>
`,
		"ViewModels/FooViewModel.cs": `namespace SampleApp.ViewModels
{
    public class FooViewModel
    {
`,
	})
	assert.Empty(t, findings)
}

// Test that the adjacent code-behind class serves as the binding target
func TestRuleBindingTarget_CodeBehindPair(t *testing.T) {
	findings := runRule(rules.NewRuleBindingTarget(), map[string]string{
		"Views/About.axaml": `<Window xmlns="https://github.com/avaloniaui"
        x:Class="SampleApp.Views.About">
    <TextBlock Text="{Binding BuildNumber}"/>
    <TextBlock Text="{Binding Nope}"/>
</Window>
`,
		"Views/About.axaml.cs": `namespace SampleApp.Views
{
    public partial class About : Window
    {
        public string BuildNumber { get; }

        public About()
        {
            InitializeComponent();
        }
    }
}
`,
	})

	require.Len(t, findings, 1)
	assert.Equal(t, `binding "Nope" is not declared in About (Views/About.axaml.cs)`, findings[0].Message)
	assert.Equal(t, 4, findings[0].Line)
}
