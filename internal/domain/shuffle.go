package domain

import "math/rand"

// ShuffleOptions returns a shuffled copy of options and the index the
// correct option moved to.
func ShuffleOptions(options []string, correct int, rnd *rand.Rand) ([]string, int) {
	shuffled := make([]string, len(options))
	copy(shuffled, options)
	if correct < 0 || correct >= len(options) {
		return shuffled, correct
	}

	order := rnd.Perm(len(options))
	newCorrect := correct
	for i, from := range order {
		shuffled[i] = options[from]
		if from == correct {
			newCorrect = i
		}
	}
	return shuffled, newCorrect
}

// ShuffleQuestionOptions shuffles the options of every multiple choice
// question that carries a valid correct index, keeping the key in sync.
func ShuffleQuestionOptions(quiz Quiz, rnd *rand.Rand) Quiz {
	out := quiz
	out.Questions = make([]Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		if q.Kind == KindMultipleChoice && q.Correct != nil {
			if idx, ok := q.Correct.Index(); ok {
				opts, newIdx := ShuffleOptions(q.Options, idx, rnd)
				sel := IndexSelection(newIdx)
				q.Options = opts
				q.Correct = &sel
			}
		}
		out.Questions[i] = q
	}
	return out
}
