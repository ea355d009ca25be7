// Package errors provides coded, structured errors for the formcore CLI
// and its configuration and form-definition loaders.
//
// Each error has a code (e.g., "F020") registered with a category, a
// short message, a detail paragraph and a documentation link. Decode
// errors can be pinned to the offending line of the input file:
//
//	err := errors.New("F020").
//	    WithLocationFromError("survey.json", decodeErr).
//	    WithSuggestion("Check for a trailing comma")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR F020: Invalid form definition
//	//
//	//   survey.json:4:3
//	//
//	//        2 │   "pages": [
//	//        3 │     {"name": "p1"},
//	//   →    4 │   ]
//	//        │   ^
//	//
//	//   Hint: Check for a trailing comma
//
// # Categories
//
//   - config: formcore.json/formcore.yaml problems
//   - schema: form definitions and class declarations
//   - expression: condition compilation and evaluation
//   - model: usage errors reported by the reactive core
//   - cli: command-line usage
package errors
