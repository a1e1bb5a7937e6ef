// Package pairwise embeds the pairwise comparison survey engine: participants
// judge pairs of samples, and each participant's judgments become a ranking
// through a reciprocal comparison matrix and its priority vector.
//
//	client, _ := pairwise.New(ctx,
//	    pairwise.WithValkey("localhost:6379", ""),
//	    pairwise.WithTasksDir("./tasks"),
//	)
//	defer client.Close()
//
//	_, _ = client.Scan(ctx)
//	p, _ := client.Register(ctx, pairwise.Profile{Age: 30, Gender: "female", Task: "faces"})
//	pairs, _ := client.Pairs(ctx, "faces", p.Token, "realistic")
//	_ = client.Submit(ctx, pairwise.Judgment{
//	    Token: p.Token, Metric: "realistic",
//	    A: pairs.Pairs[0].A, B: pairs.Pairs[0].B, Ratio: 3,
//	})
//	ranking, _ := client.Ranking(ctx, "faces", p.Token, "realistic")
package pairwise
