package rules_test

import (
	"fmt"
	"testing"

	"github.com/avalonia-tools/avalint/rules"
	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test that undeclared StaticResource keys are flagged and declared ones resolve
func TestRuleStaticResource_UndeclaredKeyFlagged(t *testing.T) {
	findings := runRule(rules.NewRuleStaticResource(), map[string]string{
		"App.axaml": `<Application xmlns="https://github.com/avaloniaui">
    <Application.Resources>
        <SolidColorBrush x:Key="AccentBrush">#FF4081</SolidColorBrush>
    </Application.Resources>
</Application>
`,
		"Views/MainWindow.axaml": `<Window xmlns="https://github.com/avaloniaui">
    <Border Background="{StaticResource AccentBrush}"/>
    <Border Background="{StaticResource PrimaryBrush}"/>
    <Border Background="{DynamicResource RuntimeBrush}"/>
</Window>
`,
	})

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, rules.RuleStaticResourceUnknownID, f.RuleID)
	assert.Equal(t, models.SeverityWarning, f.Severity)
	assert.Equal(t, "Views/MainWindow.axaml", f.Path)
	assert.Equal(t, 3, f.Line)
	assert.Equal(t, `StaticResource "PrimaryBrush" is not declared with x:Key in the scanned markup`, f.Message)
}

// Test that well-known theme key prefixes never trigger
func TestRuleStaticResource_ThemeKeysSkipped(t *testing.T) {
	for _, key := range []string{"ThemeBorderBrush", "SystemAccentColor", "FluentBaseHighColor", "MaterialDesignPaper"} {
		findings := runRule(rules.NewRuleStaticResource(), map[string]string{
			"Views/Panel.axaml": fmt.Sprintf(`<UserControl xmlns="https://github.com/avaloniaui">
    <Border Background="{StaticResource %s}"/>
</UserControl>
`, key),
		})
		assert.Empty(t, findings, "key %s should be treated as theme-provided", key)
	}
}
