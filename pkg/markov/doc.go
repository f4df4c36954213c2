/*
Package markov builds a first-order word adjacency model from a text corpus and
generates new text by walking it.

A corpus is split into lower-cased word tokens by a Tokenizer and folded into a
WordGraph in a single pass: every distinct token gets a WordNode holding its
occurrence count and the counts of the tokens observed directly after it.
Graphs are read-only once built, so one graph can serve any number of
concurrent generation calls. Rebuilding produces a new graph; the Generator
type publishes it atomically.

Three policies drive generation:

  - PolicyRandom picks each next token with probability proportional to its
    observed transition count.
  - PolicyDeterministic always picks the most frequent successor, breaking
    ties by ascending token.
  - PolicyProbable does not walk at all; it reports the top-k successors of
    the seed.

When a walk reaches a token with no successors it restarts from the seed,
spending one step of the budget on the restart.
*/
package markov
