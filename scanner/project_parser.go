package scanner

import (
	"github.com/avalonia-tools/avalint/scanner/models"
)

// ParseProject scans a .csproj file with the same tolerant tag scanner markup
// uses, then lifts out package references and property values. MSBuild files
// are XML, so malformed regions surface through the markup findings.
func ParseProject(file models.SourceFile) *models.ParsedUnit {
	unit := ParseMarkup(file)

	for _, el := range unit.Elements {
		switch baseName(el.Name) {
		case "PackageReference":
			include, ok := el.Attr("Include")
			if !ok || include == "" {
				continue
			}
			version, _ := el.Attr("Version")
			unit.Packages = append(unit.Packages, models.PackageRef{
				Name:    include,
				Version: version,
				Line:    el.Line,
			})
		default:
			// Leaf elements with character content are MSBuild properties:
			// RootNamespace, UseAvalonia, TargetFramework and friends.
			if el.Text != "" {
				if unit.Properties == nil {
					unit.Properties = make(map[string]string)
				}
				unit.Properties[baseName(el.Name)] = el.Text
			}
		}
	}

	return unit
}
