package rules_test

import (
	"testing"

	"github.com/avalonia-tools/avalint/rules"
	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test that a project file without any Avalonia package is flagged
func TestRuleAvaloniaPackages_NoAvaloniaFlagged(t *testing.T) {
	findings := runRule(rules.NewRuleAvaloniaPackages(), map[string]string{
		"SampleApp.csproj": `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
  </PropertyGroup>
  <ItemGroup>
    <PackageReference Include="Serilog" Version="3.1.1"/>
    <PackageReference Include="CommunityToolkit.Mvvm" Version="8.2.2"/>
  </ItemGroup>
</Project>
`,
	})

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, rules.RuleAvaloniaPackagesMissingID, f.RuleID)
	assert.Equal(t, models.SeverityError, f.Severity)
	assert.Equal(t, "SampleApp.csproj", f.Path)
	assert.Equal(t, 1, f.Line)
	assert.Equal(t, "No Avalonia packages found in project file", f.Message)
	assert.Equal(t, `add <PackageReference Include="Avalonia" Version="11.0.7"/>`, f.Suggestion)
}

// Test that any package whose name contains Avalonia satisfies the rule
func TestRuleAvaloniaPackages_ThemePackageCounts(t *testing.T) {
	findings := runRule(rules.NewRuleAvaloniaPackages(), map[string]string{
		"SampleApp.csproj": `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <PackageReference Include="Avalonia.Themes.Fluent" Version="11.0.7"/>
  </ItemGroup>
</Project>
`,
	})

	assert.Empty(t, findings)
}

// Test that a project file we could not parse cleanly is not judged
func TestRuleAvaloniaPackages_DegradedProjectSkipped(t *testing.T) {
	findings := runRule(rules.NewRuleAvaloniaPackages(), map[string]string{
		"Legacy/Legacy.csproj": `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <PackageReference Include="Serilog"
`,
	})

	assert.Empty(t, findings)
}
