// Package embed_data carries static assets compiled into the binary.
package embed_data

import (
	_ "embed"
)

//go:embed tree-sitter/queries/csharp.json
var CSharpQuery []byte
