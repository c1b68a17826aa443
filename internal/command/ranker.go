package command

import (
	"context"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/args"
	"github.com/devggaurav/KShell-UI/internal/suggest"
)

// DefaultSuggestionLimit bounds a batch when no limit is configured.
const DefaultSuggestionLimit = 25

// Ranker produces the live suggestion batch for the text being typed.
type Ranker struct {
	registry *Registry
	limit    int
}

// NewRanker creates a ranker over registry. A non-positive limit selects
// DefaultSuggestionLimit.
func NewRanker(registry *Registry, limit int) *Ranker {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	return &Ranker{registry: registry, limit: limit}
}

// Limit returns the maximum batch size.
func (r *Ranker) Limit() int {
	return r.limit
}

// Rank computes suggestions for text in mode. The result depends only on the
// text, the mode and what the sources return.
func (r *Ranker) Rank(ctx context.Context, mode Mode, text, workDir string) suggest.Batch {
	tokens := args.Scan(text)
	trailing := args.EndsInSpace(text)

	if mode.IsPrompt() {
		return r.rankArgs(ctx, mode.Command, text, tokens, 0, trailing, workDir)
	}
	if len(tokens) == 0 {
		return suggest.Batch{Merge: suggest.Append()}
	}
	if len(tokens) == 1 && !trailing {
		return r.rankNames(tokens[0])
	}
	def, ok := r.registry.Lookup(tokens[0].Text)
	if !ok {
		return suggest.Batch{Merge: suggest.Append()}
	}
	return r.rankArgs(ctx, def, text, tokens[1:], tokens[0].End, trailing, workDir)
}

func (r *Ranker) rankNames(tok args.Token) suggest.Batch {
	var items []suggest.Suggestion
	for _, c := range r.registry.complete(tok.Text) {
		repl := c.name
		if c.def.TakesArgs() {
			repl += " "
		}
		items = append(items, suggest.Suggestion{
			Label:       c.name,
			Replacement: repl,
			Runnable:    !c.def.TakesArgs(),
		})
	}
	return suggest.Batch{Items: r.finish(items), Merge: suggest.Replace(tok.Start, tok.End-1)}
}

// rankArgs queries def's source. argTokens are the argument tokens and
// argFrom is the rune offset where the argument text begins.
func (r *Ranker) rankArgs(ctx context.Context, def *Definition, text string, argTokens []args.Token, argFrom int, trailing bool, workDir string) suggest.Batch {
	if def == nil || def.Suggest == nil {
		return suggest.Batch{Merge: suggest.Append()}
	}
	runes := []rune(text)
	n := len(runes)

	var (
		q     = Query{WorkDir: workDir}
		merge suggest.MergeAction
	)
	switch def.Merge {
	case MergeArgs:
		start := n
		if len(argTokens) > 0 {
			start = argTokens[0].Start
		}
		q.Partial = strings.TrimLeft(string(runes[argFrom:]), " \t")
		merge = suggest.Replace(start, n-1)
	case MergeToken:
		done := argTokens
		if trailing || len(argTokens) == 0 {
			merge = suggest.Insert(n)
		} else {
			last := argTokens[len(argTokens)-1]
			done = argTokens[:len(argTokens)-1]
			q.Partial = last.Text
			merge = suggest.Replace(last.Start, last.End-1)
		}
		if def.MaxArgs != Unbounded && len(done) >= def.MaxArgs {
			return suggest.Batch{Merge: merge}
		}
		q.Args = tokenArgs(done)
	default:
		q.Args = tokenArgs(argTokens)
		if !trailing && len(argTokens) > 0 {
			q.Partial = argTokens[len(argTokens)-1].Text
		}
		merge = suggest.Append()
	}

	items := def.Suggest(ctx, q)
	if ctx.Err() != nil {
		return suggest.Batch{Merge: merge}
	}
	return suggest.Batch{Items: r.finish(items), Merge: merge}
}

// finish drops duplicates, keeping source order, and truncates to the limit.
func (r *Ranker) finish(items []suggest.Suggestion) []suggest.Suggestion {
	seen := make(map[suggest.Suggestion]bool, len(items))
	out := make([]suggest.Suggestion, 0, min(len(items), r.limit))
	for _, s := range items {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == r.limit {
			break
		}
	}
	return out
}

func tokenArgs(tokens []args.Token) args.Arguments {
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
	}
	return args.New(texts...)
}
