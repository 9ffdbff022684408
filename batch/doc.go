// Package batch generates several report types for the same product list
// concurrently.
//
// A Runner schedules one generation per requested report type on a bounded
// ants worker pool and waits for all of them. Failures are per report: one
// failing type does not cancel the others.
//
//	runner, err := batch.NewRunner(generator, batch.WithPoolSize(3))
//	if err != nil {
//		return err
//	}
//	defer runner.Release()
//
//	for _, res := range runner.Run(ctx, products) {
//		if res.Err != nil {
//			log.Printf("%s: %v", res.Type, res.Err)
//			continue
//		}
//		fmt.Println(res.Report.Title)
//	}
package batch
