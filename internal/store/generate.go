package store

// This file documents code generation for the store package.
//
// To regenerate the Schema constant from the migration files:
//   go generate ./internal/store

//go:generate sh -c "cd ../.. && go run internal/store/tools/generate_schema.go"
