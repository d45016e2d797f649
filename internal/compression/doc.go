// Package compression evaluates how well a compressed summary preserves
// the information of the conversation it replaced.
//
// # Overview
//
// Evaluation is probe based:
//
//  1. Facts, file references and decisions are pulled from the original
//     messages with static pattern tables (FactPatterns, FilePatterns,
//     DecisionPatterns).
//  2. GenerateProbes turns them into recall, artifact, continuation and
//     decision probes, each a question with a ground truth.
//  3. A Judge scores the summary against every probe on one or more of
//     six weighted dimensions.
//  4. Aggregate averages each dimension (0.5 when untested) and
//     QualityScore folds them into a weighted quality score.
//
// HeuristicJudge is the built-in judge. It checks whether the ground truth
// or its leading words appear in the summary. Any other Judge, such as a
// model-backed one, can be injected with WithJudge without changing
// aggregation.
//
// No probe exercises DimensionInstructionFollowing, so it always carries
// the neutral 0.5.
//
// # Usage
//
//	eval := compression.NewEvaluator(compression.WithLogger(logger))
//	report, err := eval.Evaluate(ctx, conv, summary, nil)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.QualityScore)
package compression
