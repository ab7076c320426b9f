package schema

import (
	"strings"

	"github.com/aretw0/canvass/pkg/domain"
)

// Complete is the pseudo-index standing for flow completion in a transition graph.
const Complete = -1

// Successors returns every position the flow can move to after question i is answered,
// following the same precedence as the runtime resolver: option jumps, then the
// forward condition scan, then the sequential fallback. Free-text answers are
// unknown ahead of time, so each distinct later condition is a possible successor.
func Successors(flow *domain.Flow, i int) []int {
	q := &flow.Questions[i]
	set := make(map[int]struct{})

	if q.Kind == domain.KindChoice {
		for _, opt := range q.Options {
			switch {
			case opt.Ends():
				set[Complete] = struct{}{}
			case opt.JumpTarget != "":
				if j := flow.IndexOf(opt.JumpTarget); j >= 0 {
					set[j] = struct{}{}
				}
			default:
				set[ConditionalNext(flow, i, opt.Text)] = struct{}{}
			}
		}
	} else {
		seen := make(map[string]struct{})
		for j := i + 1; j < len(flow.Questions); j++ {
			later := &flow.Questions[j]
			if !later.Conditional() {
				continue
			}
			cond := strings.ToLower(strings.TrimSpace(later.Condition))
			if _, shadowed := seen[cond]; shadowed {
				continue
			}
			seen[cond] = struct{}{}
			set[j] = struct{}{}
		}
		set[SequentialNext(flow, i)] = struct{}{}
	}

	out := make([]int, 0, len(set))
	for j := range set {
		out = append(out, j)
	}
	return out
}

// ConditionalNext returns the first question after i whose condition matches answer,
// falling back to SequentialNext.
func ConditionalNext(flow *domain.Flow, i int, answer string) int {
	answer = strings.TrimSpace(answer)
	for j := i + 1; j < len(flow.Questions); j++ {
		q := &flow.Questions[j]
		if q.Conditional() && strings.EqualFold(strings.TrimSpace(q.Condition), answer) {
			return j
		}
	}
	return SequentialNext(flow, i)
}

// SequentialNext returns the first unconditional question after i, or Complete.
func SequentialNext(flow *domain.Flow, i int) int {
	for j := i + 1; j < len(flow.Questions); j++ {
		if !flow.Questions[j].Conditional() {
			return j
		}
	}
	return Complete
}

// Traps returns the ids of questions from which completion can never be reached.
func Traps(flow *domain.Flow) []string {
	n := len(flow.Questions)
	reverse := make(map[int][]int, n+1)
	for i := 0; i < n; i++ {
		for _, j := range Successors(flow, i) {
			reverse[j] = append(reverse[j], i)
		}
	}

	canFinish := make([]bool, n)
	queue := append([]int(nil), reverse[Complete]...)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if canFinish[i] {
			continue
		}
		canFinish[i] = true
		queue = append(queue, reverse[i]...)
	}

	var traps []string
	for i, ok := range canFinish {
		if !ok {
			traps = append(traps, flow.Questions[i].ID)
		}
	}
	return traps
}

// Unreachable returns the ids of questions no path from the first question visits.
func Unreachable(flow *domain.Flow) []string {
	n := len(flow.Questions)
	if n == 0 {
		return nil
	}

	visited := make([]bool, n)
	queue := []int{0}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if visited[i] {
			continue
		}
		visited[i] = true
		for _, j := range Successors(flow, i) {
			if j != Complete && !visited[j] {
				queue = append(queue, j)
			}
		}
	}

	var out []string
	for i, ok := range visited {
		if !ok {
			out = append(out, flow.Questions[i].ID)
		}
	}
	return out
}
