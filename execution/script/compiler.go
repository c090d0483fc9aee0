package script

import "io"

// Compiler validates script text and turns it into ExecutableContent.
//
// Example usage:
//
//	comp, _ := payoff.NewCompiler()
//	content, err := comp.Compile(reader)
//	if err != nil {
//	    // syntax error, unsupported construct, malformed tree
//	}
type Compiler interface {
	// Compile reads and closes scriptReader, and returns the compiled script.
	Compile(scriptReader io.ReadCloser) (ExecutableContent, error)
}
