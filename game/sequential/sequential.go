// Package sequential provides utilities to run game playouts in a sequential-game setting.
// Policy consistency validation is centralized in Engine.Playouts.
//
// Package sequential は逐次（ターン制）ゲームのプレイアウト実行ユーティリティを提供します。
// Policy の整合性チェックは Engine.Playouts に集約されています。
package sequential

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmptySlice = errors.New("空スライスエラー")

	ErrNilLogicFunc  = errors.New("Logicエラー: フィールドの関数がnilです")
	ErrNilEngineFunc = errors.New("Engineエラー: フィールドの関数がnilです")

	ErrDuplicateAgent = errors.New("エージェント重複エラー: duplicate agent")

	ErrInvalidRankValue  = errors.New("順位エラー: 1以上の正の整数である必要があります")
	ErrMinRankNotOne     = errors.New("最小順位エラー: 1から始まる必要があります")
	ErrRankNotContiguous = errors.New("順位不連続エラー: 順位が連続していません")

	ErrEmptyLegalMoves = errors.New("legalMovesエラー: 要素数が0です")
)

type LegalMovesFunc[S any, M comparable] func(S) []M
type MoveFunc[S any, M comparable] func(S, M) (S, error)
type CurrentAgentFunc[S any, A comparable] func(S) A

type Logic[S any, M, A comparable] struct {
	LegalMovesFunc   LegalMovesFunc[S, M]
	MoveFunc         MoveFunc[S, M]
	CurrentAgentFunc CurrentAgentFunc[S, A]
}

func (l Logic[S, M, A]) Validate() error {
	if l.LegalMovesFunc == nil {
		return fmt.Errorf("%w: LegalMovesFunc", ErrNilLogicFunc)
	}
	if l.MoveFunc == nil {
		return fmt.Errorf("%w: MoveFunc", ErrNilLogicFunc)
	}
	if l.CurrentAgentFunc == nil {
		return fmt.Errorf("%w: CurrentAgentFunc", ErrNilLogicFunc)
	}
	return nil
}

// ゲームが終了していない場合は、空あるいはnilにする
type RankByAgent[A comparable] map[A]int

func NewRankByAgent[A comparable](agentsPerRank [][]A) (RankByAgent[A], error) {
	ranks := RankByAgent[A]{}
	rank := 1
	for _, agents := range agentsPerRank {
		if len(agents) == 0 {
			return nil, fmt.Errorf("順位 %d に対応するエージェントが存在しません(empty): %w", rank, ErrEmptySlice)
		}

		for _, agent := range agents {
			if _, ok := ranks[agent]; ok {
				return nil, fmt.Errorf("エージェント %v が複数回出現しています: %w", agent, ErrDuplicateAgent)
			}
			ranks[agent] = rank
		}
		rank += len(agents)
	}
	return ranks, nil
}

func (r RankByAgent[A]) Validate() error {
	n := len(r)
	if n == 0 {
		return nil
	}

	ranks := make([]int, 0, n)
	for _, rank := range r {
		if rank < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidRankValue, rank)
		}
		ranks = append(ranks, rank)
	}
	sort.Ints(ranks)

	current := ranks[0]
	if current != 1 {
		return fmt.Errorf("%w: 入力された最小順位: %d", ErrMinRankNotOne, current)
	}
	expected := current + 1

	for _, rank := range ranks[1:] {
		// 同順の場合
		if rank == current {
			expected += 1
			// 順位が切り替わった場合
		} else if rank == expected {
			current = rank
			expected = rank + 1
		} else {
			return fmt.Errorf("%w: expected %d, got %d", ErrRankNotContiguous, expected, rank)
		}
	}
	return nil
}

type RankByAgentFunc[S any, A comparable] func(S) (RankByAgent[A], error)
type ResultScoreByAgent[A comparable] map[A]float32
type ResultScoreByAgentFunc[A comparable] func(RankByAgent[A]) (ResultScoreByAgent[A], error)

// StandardResultScoreByAgent maps ranks to scores in [0, 1]: first place 1,
// last place 0, ties share the average of the places they occupy.
// A two-player draw therefore scores 0.5 for both.
func StandardResultScoreByAgent[A comparable](ranks RankByAgent[A]) (ResultScoreByAgent[A], error) {
	if err := ranks.Validate(); err != nil {
		return nil, err
	}

	n := len(ranks)
	scores := ResultScoreByAgent[A]{}

	// エージェントが1人だけなら 1.0 固定
	if n == 1 {
		for agent := range ranks {
			scores[agent] = 1.0
		}
		return scores, nil
	}

	counts := map[int]int{}
	for _, rank := range ranks {
		counts[rank]++
	}

	den := float32(n - 1)
	for agent, r := range ranks {
		k := counts[r]
		scores[agent] = 1.0 - float32(2*r+k-3)/(2.0*den)
	}
	return scores, nil
}

type Engine[S any, M, A comparable] struct {
	Logic                  Logic[S, M, A]
	RankByAgentFunc        RankByAgentFunc[S, A]
	ResultScoreByAgentFunc ResultScoreByAgentFunc[A]
	Agents                 []A
}

func (e Engine[S, M, A]) Validate() error {
	if err := e.Logic.Validate(); err != nil {
		return err
	}

	if e.RankByAgentFunc == nil {
		return fmt.Errorf("%w: RankByAgentFunc", ErrNilEngineFunc)
	}

	if e.ResultScoreByAgentFunc == nil {
		return fmt.Errorf("%w: ResultScoreByAgentFunc", ErrNilEngineFunc)
	}

	if len(e.Agents) == 0 {
		return fmt.Errorf("%w: Engine.Agents が空です", ErrEmptySlice)
	}
	return nil
}

func (e Engine[S, M, A]) IsEnd(state S) (bool, error) {
	rankByAgent, err := e.RankByAgentFunc(state)
	return len(rankByAgent) != 0, err
}

func (e *Engine[S, M, A]) SetStandardResultScoreByAgentFunc() {
	e.ResultScoreByAgentFunc = StandardResultScoreByAgent[A]
}

func (e Engine[S, M, A]) EvaluateResultScoreByAgent(state S) (ResultScoreByAgent[A], error) {
	rankByAgent, err := e.RankByAgentFunc(state)
	if err != nil {
		return nil, err
	}
	return e.ResultScoreByAgentFunc(rankByAgent)
}
