//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Outcome is how a relay attempt ended
// ENUM(copied,forwarded,grouped,skipped,failed)
type Outcome string

// Operation names the kind of relay that was attempted
// ENUM(single,group,edit)
type Operation string
