// Package errors provides structured, actionable error messages for routestate.
//
// Every error carries a stable code (e.g. "E104") that maps to:
//   - a category (config, navigation, cli)
//   - a short message describing the error
//   - a longer explanation
//
// Configuration errors also carry the route location they were detected at,
// expressed as the path prefix accumulated so far:
//
//	err := errors.New("E104").
//	    At("/utilisateurs/:utiId").
//	    WithSuggestion("Segment names may not contain '/' or ':'")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E104: Invalid segment name
//	//
//	//   at /utilisateurs/:utiId
//	//
//	//   Hint: Segment names may not contain '/' or ':'
//
// Errors wrap a sentinel of their category so callers can match them with
// the standard library:
//
//	if stderrors.Is(err, errors.ErrConfig) { ... }
package errors
