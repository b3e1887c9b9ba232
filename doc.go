// Package formskema validates form data against JSON-Schema-like
// definitions with anyOf, allOf and oneOf combinators, and reports failures
// per field in a shape a form can display.
//
// Building blocks live in sub-packages: definition (ordered raw
// documents), schema (the parsed tree), explode (combinator expansion),
// validate, result (raw and interpreted result trees), expression and i18n.
// The root package ties them together:
//
//	c, err := formskema.Load("form.json", formskema.WithTranslator(i18n.Dictionary("ja")))
//	if err != nil {
//		return err
//	}
//	r := c.Validate(data)
//	for path, msgs := range r.Messages {
//		fmt.Println(path, msgs)
//	}
//
// Configuration problems (a malformed schema, an unresolved $ref, oneOf under
// the expand strategy) are returned as errors by Compile. Invalid data is
// not an error: it is described by the Report.
package formskema
