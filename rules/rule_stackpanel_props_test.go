package rules_test

import (
	"testing"

	"github.com/avalonia-tools/avalint/rules"
	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test that Padding, RowGap and ColumnGap on StackPanel are errors
func TestRuleStackPanelProps_UnsupportedAttrsFlagged(t *testing.T) {
	findings := runRule(rules.NewRuleStackPanelProps(), map[string]string{
		"Views/MainWindow.axaml": `<Window xmlns="https://github.com/avaloniaui">
    <StackPanel Padding="8" RowGap="4">
        <TextBlock Text="a"/>
    </StackPanel>
    <StackPanel ColumnGap="2"/>
</Window>
`,
	})

	require.Len(t, findings, 3)
	assert.Equal(t, []string{
		"StackPanel doesn't support Padding (use Border instead)",
		"RowGap not supported in Avalonia 11 (use Margin instead)",
		"ColumnGap not supported in Avalonia 11 (use Margin instead)",
	}, messages(findings))

	for _, f := range findings {
		assert.Equal(t, rules.RuleStackPanelUnsupportedID, f.RuleID)
		assert.Equal(t, models.SeverityError, f.Severity)
		assert.Equal(t, "Views/MainWindow.axaml", f.Path)
	}
	assert.Equal(t, 2, findings[0].Line)
	assert.Equal(t, 2, findings[1].Line)
	assert.Equal(t, 5, findings[2].Line)
	assert.Equal(t, "wrap the StackPanel in a Border and set Padding there", findings[0].Suggestion)
}

// Test that other panels and supported StackPanel attrs pass
func TestRuleStackPanelProps_ExactElementNameOnly(t *testing.T) {
	findings := runRule(rules.NewRuleStackPanelProps(), map[string]string{
		"Views/Layout.axaml": `<UserControl xmlns="https://github.com/avaloniaui">
    <Border Padding="8">
        <VirtualizingStackPanel Padding="4"/>
    </Border>
    <StackPanel Spacing="6" Margin="2" Orientation="Horizontal"/>
</UserControl>
`,
	})

	assert.Empty(t, findings)
}
