//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// State is the lifecycle state of the mirror supervisor
// ENUM(idle,resolving,listening,backoff,stopped)
type State string
