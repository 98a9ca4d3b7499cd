//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// EditPolicy decides what happens to edited source posts
// ENUM(copy,ignore)
type EditPolicy string

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string
