// Package errors provides structured, coded errors for elemkit.
//
// Every fault the engine, the configuration loader and the inspector tool can
// raise is registered under a short code (e.g. "E202") that maps to:
//   - a category (engine, config, tool)
//   - a one-line message
//   - a longer explanation
//
// Errors created from the same code match each other with the standard
// library's errors.Is, so packages can export sentinel values and attach the
// specifics of each occurrence as Detail:
//
//	var ErrUnknownID = errors.New("E220")
//
//	return errors.New("E220").WithDetail(fmt.Sprintf("id %q", id))
//
//	if stderrors.Is(err, ErrUnknownID) { ... }
//
// # Formatting
//
// Format renders an error for a terminal:
//
//	ERROR E220: Unknown node id
//
//	  id "title"
//
//	  Hint: Check the id passed to GetNode against the node description
package errors
