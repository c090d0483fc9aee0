package data

// Types of an object as a string.
type Types string

// These valid types as constants, limited for our use.
const (
	FLOAT Types = "float"
	MAP   Types = "map"
	NONE  Types = "none"
)
