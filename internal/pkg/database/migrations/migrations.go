package migrations

import "embed"

// FS contém os arquivos SQL versionados aplicados pelo goose.
//
//go:embed *.sql
var FS embed.FS
