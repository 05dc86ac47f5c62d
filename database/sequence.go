package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Sequence names seeded by loader.InitDatabase.
const SeqPSBOrder = "PSB"

// NextSequenceInTx increments the named counter and formats the new code as
// prefix + zero-padded number. Must run inside the caller's transaction so a
// rolled-back insert does not burn a number visible to concurrent writers.
func NextSequenceInTx(tx *sqlx.Tx, name, prefix string, padding int) (string, error) {
	var lastNo int
	err := tx.Get(&lastNo, "SELECT last_no FROM code_sequences WHERE name = ?", name)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("sequence '%s' not found", name)
		}
		return "", fmt.Errorf("failed to get sequence '%s': %w", name, err)
	}

	newNo := lastNo + 1
	if _, err := tx.Exec(`UPDATE code_sequences SET last_no = ? WHERE name = ?`, newNo, name); err != nil {
		return "", fmt.Errorf("failed to update sequence '%s': %w", name, err)
	}

	format := fmt.Sprintf("%s%%0%dd", prefix, padding)
	return fmt.Sprintf(format, newNo), nil
}
