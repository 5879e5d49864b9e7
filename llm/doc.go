// Package llm describes the inference endpoint that blocks talk to.
//
// # Core Concepts
//
//  1. Generator and ModelCreator: the two remote operations, one attempt each.
//     Implementations never retry; callers wrap them with the retry package.
//
//  2. Model: the closed set of model identifiers blocks may request, each with
//     static metadata (provider, context window and the tag sent on the wire).
//
//  3. Errors: every failure is an *Error tagged with an ErrorType, so callers
//     branch with errors.As or the Is* helpers instead of string matching.
//
// Usage Example
//
//	client, err := ollama.NewClient(host, 2*time.Minute, logger)
//	if err != nil {
//		return err
//	}
//	text, err := client.Generate(ctx, prompt, llm.ModelLlama31.Tag())
//	if llm.IsIncompleteGenerationError(err) {
//		// try again
//	}
//
// The llmtest subpackage provides scripted implementations for tests.
package llm
