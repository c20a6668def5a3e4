package server

import "github.com/google/uuid"

const (
	resultCorrect   = "correct"
	resultIncorrect = "incorrect"
)

func validateRoundID(raw string) (string, error) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", errValidation("invalid round id")
	}
	return parsed.String(), nil
}

func validateQuestionID(id uint) error {
	if id == 0 {
		return errValidation("invalid question id")
	}
	return nil
}

func validateResult(raw string) (string, error) {
	switch raw {
	case resultCorrect, resultIncorrect:
		return raw, nil
	default:
		return "", errValidation("result must be correct or incorrect")
	}
}
