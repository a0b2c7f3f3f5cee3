// Package pipeline implements an asynchronous HTTP request/response
// pipeline: typed request descriptors, chainable parse stages, and
// tasks that deliver exactly one three-way result (success, error,
// or canceled) per execution.
//
// A caller builds a [Descriptor], composes a [Stage] chain describing
// how the response body becomes a domain value, and hands both to
// [Execute] on a [Client]. The returned [Task] can be canceled from
// any goroutine; whichever of cancellation and natural completion
// reaches the terminal transition first wins, and the completion
// handler runs exactly once.
//
// # Usage
//
//	c, err := pipeline.Build()
//	if err != nil {
//		// ...
//	}
//
//	desc, err := pipeline.NewDescriptor(http.MethodGet, "https://api.example.com/users",
//		pipeline.WithExpect("application/json"),
//	)
//	if err != nil {
//		// ...
//	}
//
//	stage := pipeline.JSONAs[[]User]()
//	task, err := pipeline.Execute(ctx, c, desc, stage, func(t *pipeline.Task, r pipeline.Result[[]User]) {
//		if users, _, ok := r.Succeeded(); ok {
//			// ...
//		}
//	})
package pipeline
