package board

import (
	"errors"

	"github.com/thenoetrevino/etapa/internal/models"
)

// Toast texts per operation
var messages = map[string]struct{ ok, failed string }{
	opMoveCard:       {"Carte déplacée", "carte déplacée — échec, annulé"},
	opReorderColumns: {"Colonnes réordonnées", "réorganisation des colonnes — échec, annulée"},
	opAddColumn:      {"Colonne ajoutée", "ajout de colonne — échec, annulé"},
	opArchiveColumn:  {"Colonne archivée", "archivage de colonne — échec, annulé"},
	opRenameColumn:   {"Colonne renommée", "renommage de colonne — échec, annulé"},
	opAddCard:        {"Carte ajoutée", "ajout de carte — échec, annulé"},
	opDeleteCard:     {"Carte supprimée", "suppression de carte — échec, annulée"},
}

// reason explains a failure kind to the user
func reason(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "introuvable"
	case errors.Is(err, models.ErrConflict):
		return "conflit, veuillez réessayer"
	case errors.Is(err, models.ErrTransactionFailed):
		return "échec technique"
	case errors.Is(err, models.ErrUnauthorized):
		return "accès refusé"
	default:
		return "erreur inattendue"
	}
}

func successMessage(op string) string {
	return messages[op].ok
}

func failureMessage(op string, err error) string {
	return messages[op].failed + " (" + reason(err) + ")"
}
