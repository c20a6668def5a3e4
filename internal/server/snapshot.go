package server

import (
	"clueboard/internal/db"

	"gorm.io/gorm"
)

// BoardCell is one clue cell as clients see it. Prompt text appears only
// once the cell is revealed; the answer only once it has been evaluated.
type BoardCell struct {
	QuestionID uint   `json:"questionId"`
	RowIndex   int    `json:"rowIndex"`
	Value      int    `json:"value"`
	Revealed   bool   `json:"revealed"`
	Answered   bool   `json:"answered"`
	Prompt     string `json:"prompt,omitempty"`
	Answer     string `json:"answer,omitempty"`
}

type BoardColumn struct {
	ColumnIndex  int         `json:"columnIndex"`
	CategoryName string      `json:"categoryName"`
	Clues        []BoardCell `json:"clues"`
}

// RoundSnapshot is the full state fetch clients re-derive their view
// from: on websocket connect, after a missed event, or via GET.
type RoundSnapshot struct {
	RoundID        string        `json:"roundId"`
	Status         string        `json:"status"`
	ActivePlayerID *string       `json:"activePlayerId"`
	Board          []BoardColumn `json:"board"`
	Participants   []Participant `json:"participants"`
	Winners        []Winner      `json:"winners,omitempty"`
}

type snapshotCell struct {
	QuestionID   uint
	ColumnIndex  int
	RowIndex     int
	Value        int
	Revealed     bool
	Answered     bool
	Prompt       string
	Answer       string
	CategoryName string
}

// roundSnapshot reads the whole round inside one transaction so the
// board, participants and pointer belong to a single consistent state.
func (s *Server) roundSnapshot(roundID string) (*RoundSnapshot, error) {
	var snap RoundSnapshot
	err := s.db.Transaction(func(tx *gorm.DB) error {
		round, err := findRound(tx, roundID)
		if err != nil {
			return err
		}
		participants, err := roundParticipants(tx, roundID)
		if err != nil {
			return err
		}

		var cells []snapshotCell
		err = tx.Table("round_clues").
			Select("round_clues.question_id AS question_id, round_clues.column_index AS column_index, round_clues.row_index AS row_index, round_clues.revealed AS revealed, round_clues.answered AS answered, questions.value AS value, questions.prompt AS prompt, questions.answer AS answer, categories.name AS category_name").
			Joins("INNER JOIN questions ON questions.id = round_clues.question_id").
			Joins("INNER JOIN categories ON categories.id = questions.category_id").
			Where("round_clues.round_id = ?", roundID).
			Order("round_clues.column_index asc, round_clues.row_index asc").
			Scan(&cells).Error
		if err != nil {
			return err
		}

		columns := make([]BoardColumn, 0, boardColumns)
		for _, cell := range cells {
			if len(columns) == 0 || columns[len(columns)-1].ColumnIndex != cell.ColumnIndex {
				columns = append(columns, BoardColumn{
					ColumnIndex:  cell.ColumnIndex,
					CategoryName: cell.CategoryName,
					Clues:        make([]BoardCell, 0, len(clueTiers)),
				})
			}
			board := BoardCell{
				QuestionID: cell.QuestionID,
				RowIndex:   cell.RowIndex,
				Value:      cell.Value,
				Revealed:   cell.Revealed,
				Answered:   cell.Answered,
			}
			if cell.Revealed {
				board.Prompt = cell.Prompt
			}
			if cell.Answered {
				board.Answer = cell.Answer
			}
			columns[len(columns)-1].Clues = append(columns[len(columns)-1].Clues, board)
		}

		snap = RoundSnapshot{
			RoundID:        round.ID,
			Status:         round.Status,
			ActivePlayerID: round.CurrentPlayerID,
			Board:          columns,
			Participants:   participants,
		}
		if round.Status == db.RoundStatusClosed {
			snap.Winners = determineWinners(participants)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
