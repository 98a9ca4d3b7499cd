//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// PayloadKind is the content type carried by a channel post
// ENUM(text,photo,video,document,audio,animation,other)
type PayloadKind string

// EventKind distinguishes new posts from edits
// ENUM(new_post,edited_post)
type EventKind string
