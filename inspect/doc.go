// Package inspect ties descriptor resolution, summaries, and synthetic
// children together in a Session, the context a debugger host keeps for
// one attached process.
//
//	sess := inspect.New(inspect.WithLogger(logger))
//	img.SetFormatter(sess)
//	fmt.Println(sess.Render(v))
//	for _, c := range sess.Children(v) {
//		fmt.Println(c.Name, sess.Render(c.Value))
//	}
//	sess.Invalidate() // after the process ran
package inspect
