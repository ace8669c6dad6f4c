package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bitbucket.org/zurichess/board"

	"heron/engine"
)

const defaultHashMB = 64

func main() {
	uciLoop()
}

func uciLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1<<16), 1<<16)

	pos, _ := board.PositionFromFEN(board.FENStartPos)
	eng := engine.NewEngine(defaultHashMB)
	eng.SetInfoHandler(printInfo)

	searching := make(chan struct{}, 1)

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name Heron 1.0")
			fmt.Println("id author the Heron authors")
			fmt.Println("option name Hash type spin default", defaultHashMB, "min 1 max 1024")
			fmt.Println("uciok")

		case "isready":
			fmt.Println("readyok")

		case "ucinewgame":
			pos, _ = board.PositionFromFEN(board.FENStartPos)
			eng.NewGame()

		case "setoption":
			handleSetOption(eng, tokens)

		case "position":
			if p, err := parsePosition(tokens[1:]); err != nil {
				fmt.Println("info string", err)
			} else {
				pos = p
			}

		case "go":
			depth, moveTime := parseGo(pos, tokens[1:])
			p := pos
			select {
			case searching <- struct{}{}:
				go func() {
					best := eng.BestMove(p, depth, moveTime)
					if best == board.NullMove {
						fmt.Println("bestmove 0000")
					} else {
						fmt.Println("bestmove", best.UCI())
					}
					<-searching
				}()
			default:
				fmt.Println("info string search already running")
			}

		case "stop":
			eng.Stop()

		case "eval":
			score, phase := eng.EvalDebug(pos)
			fmt.Printf("evaluation: %-8d phase: %.3g\n", score, phase)

		case "quit":
			eng.Stop()
			return
		}
	}
}

func handleSetOption(eng *engine.Engine, tokens []string) {
	name, value := "", ""
	for i := 1; i < len(tokens)-1; i++ {
		switch strings.ToLower(tokens[i]) {
		case "name":
			name = tokens[i+1]
		case "value":
			value = tokens[i+1]
		}
	}
	switch strings.ToLower(name) {
	case "hash":
		if mb, err := strconv.Atoi(value); err == nil && mb > 0 {
			eng.SetHash(mb)
		}
	}
}

func parsePosition(tokens []string) (*board.Position, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("malformed position command")
	}

	var pos *board.Position
	var err error
	movesAt := -1

	switch tokens[0] {
	case "startpos":
		pos, err = board.PositionFromFEN(board.FENStartPos)
		for i, tok := range tokens {
			if tok == "moves" {
				movesAt = i
			}
		}
	case "fen":
		fenEnd := len(tokens)
		for i, tok := range tokens {
			if tok == "moves" {
				fenEnd = i
				movesAt = i
			}
		}
		pos, err = board.PositionFromFEN(strings.Join(tokens[1:fenEnd], " "))
	default:
		return nil, fmt.Errorf("malformed position command")
	}
	if err != nil {
		return nil, err
	}

	if movesAt >= 0 {
		for _, moveStr := range tokens[movesAt+1:] {
			m, err := pos.UCIToMove(moveStr)
			if err != nil {
				return nil, err
			}
			pos.DoMove(m)
		}
	}
	return pos, nil
}

// parseGo reduces the go command to the two budgets the core understands: a
// maximum depth and a single wall-clock allowance in milliseconds.
func parseGo(pos *board.Position, tokens []string) (depth int, moveTime int64) {
	depth = engine.MaxPly
	var wtime, btime, winc, binc, movetime int64

	readInt := func(i int) int64 {
		if i+1 >= len(tokens) {
			return 0
		}
		v, _ := strconv.ParseInt(tokens[i+1], 10, 64)
		return v
	}

	for i, tok := range tokens {
		switch strings.ToLower(tok) {
		case "depth":
			depth = int(readInt(i))
		case "movetime":
			movetime = readInt(i)
		case "wtime":
			wtime = readInt(i)
		case "btime":
			btime = readInt(i)
		case "winc":
			winc = readInt(i)
		case "binc":
			binc = readInt(i)
		}
	}

	switch {
	case movetime > 0:
		moveTime = movetime
	case wtime > 0 || btime > 0:
		remaining, inc := wtime, winc
		if pos.Us() == board.Black {
			remaining, inc = btime, binc
		}
		moveTime = remaining/30 + inc
		if moveTime < 1 {
			moveTime = 1
		}
	default:
		moveTime = 0 // no budget, depth bound only
	}
	return depth, moveTime
}

func printInfo(info engine.SearchInfo) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d seldepth %d score cp %d", info.Depth, info.SelDepth, info.Score)
	if info.IsMate {
		fmt.Fprintf(&sb, " mate %d", info.MateIn)
	}
	fmt.Fprintf(&sb, " nodes %d nps %d time %d hashfull %d",
		info.Nodes, info.Nps, info.TimeMs, info.HashFull)
	if len(info.PV) > 0 {
		sb.WriteString(" pv")
		for _, m := range info.PV {
			sb.WriteString(" ")
			sb.WriteString(m.UCI())
		}
	}
	fmt.Println(sb.String())
}
