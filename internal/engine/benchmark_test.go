package engine

import (
	"testing"

	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

var benchFENs = map[string]string{
	"Initial": xiangqi.InitialFEN,
	"Opening": "r1bakabr1/9/1cn3nc1/p1p1p1p1p/9/9/P1P1P1P1P/1CN1C1N2/9/R1BAKABR1",
	"Endgame": "3k5/4a4/9/9/9/9/9/4C4/4A4/3AK1R2",
	"Cannons": "2bak4/4a4/4b4/p3c3p/2p6/9/P3P1c1P/4B4/4A4/2BAK4",
}

func BenchmarkNewBoardFromFEN(b *testing.B) {
	for name, fen := range benchFENs {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = NewBoardFromFEN(fen)
			}
		})
	}
}

func BenchmarkBoardFEN(b *testing.B) {
	for name, fen := range benchFENs {
		b.Run(name, func(b *testing.B) {
			board, _ := NewBoardFromFEN(fen)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = board.FEN()
			}
		})
	}
}

func BenchmarkAllLegalMoves(b *testing.B) {
	for name, fen := range benchFENs {
		b.Run(name, func(b *testing.B) {
			board, _ := NewBoardFromFEN(fen)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				board.AllLegalMoves(xiangqi.Red)
			}
		})
	}
}

func BenchmarkIsInCheck(b *testing.B) {
	for name, fen := range benchFENs {
		b.Run(name, func(b *testing.B) {
			board, _ := NewBoardFromFEN(fen)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				board.IsInCheck(xiangqi.Black)
			}
		})
	}
}

func BenchmarkZhRoundTrip(b *testing.B) {
	board := NewInitialBoard()
	moves := board.AllLegalMoves(xiangqi.Red)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pair := moves[i%len(moves)]
		zh, err := board.Zh(pair)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := board.ParseZh(zh); err != nil {
			b.Fatal(err)
		}
	}
}
