// Package report turns a product list into a titled Markdown report.
//
// A report is produced in three steps:
//
//  1. BuildPrompt renders the products into one of three Spanish prompt
//     templates, chosen by core.ReportType.
//  2. The prompt is sent, after GuardPrompt, to an ai.TextGenerator as a
//     single user message. The model is asked to answer with
//     {"reportContent": "<markdown>"}.
//  3. ExtractContent recovers the Markdown from the response. Models do not
//     always comply, so extraction tries progressively looser parses and
//     falls back to the raw response text. Extraction never fails.
//
// The title of a report is fixed per type and never comes from the model.
//
// Usage:
//
//	gen, err := report.NewGenerator(provider.Generator())
//	if err != nil {
//		return err
//	}
//	rep, err := gen.Generate(ctx, &core.Request{
//		ReportType: core.ReportTypeStock,
//		Products:   products,
//	})
package report
