package rules_test

import (
	"fmt"
	"testing"

	"github.com/avalonia-tools/avalint/rules"
	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useAvaloniaTestProject(propertyGroup string) string {
	return fmt.Sprintf(`<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
%s  </PropertyGroup>
  <ItemGroup>
    <PackageReference Include="Avalonia" Version="11.0.7"/>
  </ItemGroup>
</Project>
`, propertyGroup)
}

// Test that an Avalonia project without the UseAvalonia property is flagged
func TestRuleUseAvalonia_MissingPropertyFlagged(t *testing.T) {
	findings := runRule(rules.NewRuleUseAvalonia(), map[string]string{
		"SampleApp.csproj": useAvaloniaTestProject("    <TargetFramework>net8.0</TargetFramework>\n"),
	})

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, rules.RuleUseAvaloniaFlagID, f.RuleID)
	assert.Equal(t, models.SeverityWarning, f.Severity)
	assert.Equal(t, "SampleApp.csproj", f.Path)
	assert.Equal(t, 1, f.Line)
	assert.Equal(t, "UseAvalonia property not found in project file", f.Message)
	assert.Equal(t, "add <UseAvalonia>true</UseAvalonia> to a PropertyGroup", f.Suggestion)
}

// Test that UseAvalonia set to anything but true is an error
func TestRuleUseAvalonia_WrongValueFlagged(t *testing.T) {
	findings := runRule(rules.NewRuleUseAvalonia(), map[string]string{
		"SampleApp.csproj": useAvaloniaTestProject("    <UseAvalonia>false</UseAvalonia>\n"),
	})

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, models.SeverityError, f.Severity)
	assert.Equal(t, "UseAvalonia property is not set to true", f.Message)
	assert.Equal(t, "set <UseAvalonia>true</UseAvalonia>", f.Suggestion)
}

// Test that UseAvalonia true passes
func TestRuleUseAvalonia_TrueValuePasses(t *testing.T) {
	findings := runRule(rules.NewRuleUseAvalonia(), map[string]string{
		"SampleApp.csproj": useAvaloniaTestProject("    <UseAvalonia>true</UseAvalonia>\n"),
	})

	assert.Empty(t, findings)
}

// Test that projects without Avalonia packages are not expected to set the flag
func TestRuleUseAvalonia_NonAvaloniaProjectSkipped(t *testing.T) {
	findings := runRule(rules.NewRuleUseAvalonia(), map[string]string{
		"Tools/Tools.csproj": `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <PackageReference Include="Serilog" Version="3.1.1"/>
  </ItemGroup>
</Project>
`,
	})

	assert.Empty(t, findings)
}
