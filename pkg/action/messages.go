package action

import "fmt"

// messageSet holds the operator-facing strings for one command. The failed
// variant takes the error description as its single argument.
type messageSet struct {
	started string
	done    string
	failed  string
	timeout string
}

// The backend speaks French to its operators; that stays the default.
var messagesFR = map[Command]messageSet{
	Crawl: {
		started: "Crawl lancé",
		done:    "Crawl terminé",
		failed:  "Échec du crawl : %s",
		timeout: "Crawl : délai d'attente dépassé",
	},
	Index: {
		started: "Indexation lancée",
		done:    "Indexation terminée",
		failed:  "Échec de l'indexation : %s",
		timeout: "Indexation : délai d'attente dépassé",
	},
	Discover: {
		started: "Découverte lancée",
		done:    "Découverte terminée",
		failed:  "Échec de la découverte : %s",
		timeout: "Découverte : délai d'attente dépassé",
	},
	Ingest: {
		started: "Ingestion lancée",
		done:    "Ingestion terminée",
		failed:  "Échec de l'ingestion : %s",
		timeout: "Ingestion : délai d'attente dépassé",
	},
	Evaluate: {
		started: "Évaluation lancée",
		done:    "Évaluation terminée",
		failed:  "Échec de l'évaluation : %s",
		timeout: "Évaluation : délai d'attente dépassé",
	},
	Seed: {
		started: "Seed lancé",
		done:    "Seed terminé",
		failed:  "Échec du seed : %s",
		timeout: "Seed : délai d'attente dépassé",
	},
	SourceCreate: {
		done:   "Source ajoutée",
		failed: "Échec de l'ajout de la source : %s",
	},
	SourceDelete: {
		done:   "Source supprimée",
		failed: "Échec de la suppression de la source : %s",
	},
	SettingSave: {
		done:   "Paramètre enregistré",
		failed: "Échec de l'enregistrement du paramètre : %s",
	},
	IndexActivate: {
		done:   "Version d'index activée",
		failed: "Échec de l'activation de l'index : %s",
	},
}

var messagesEN = map[Command]messageSet{
	Crawl: {
		started: "Crawl started",
		done:    "Crawl finished",
		failed:  "Crawl failed: %s",
		timeout: "Crawl timed out",
	},
	Index: {
		started: "Indexing started",
		done:    "Indexing finished",
		failed:  "Indexing failed: %s",
		timeout: "Indexing timed out",
	},
	Discover: {
		started: "Discovery started",
		done:    "Discovery finished",
		failed:  "Discovery failed: %s",
		timeout: "Discovery timed out",
	},
	Ingest: {
		started: "Ingestion started",
		done:    "Ingestion finished",
		failed:  "Ingestion failed: %s",
		timeout: "Ingestion timed out",
	},
	Evaluate: {
		started: "Evaluation started",
		done:    "Evaluation finished",
		failed:  "Evaluation failed: %s",
		timeout: "Evaluation timed out",
	},
	Seed: {
		started: "Seed started",
		done:    "Seed finished",
		failed:  "Seed failed: %s",
		timeout: "Seed timed out",
	},
	SourceCreate: {
		done:   "Source added",
		failed: "Adding source failed: %s",
	},
	SourceDelete: {
		done:   "Source deleted",
		failed: "Deleting source failed: %s",
	},
	SettingSave: {
		done:   "Setting saved",
		failed: "Saving setting failed: %s",
	},
	IndexActivate: {
		done:   "Index version activated",
		failed: "Index activation failed: %s",
	},
}

// lookup returns the message set for a command in the given locale, falling
// back to French for unknown locales and to a generic set for unknown
// commands so a message is never empty.
func lookup(locale string, cmd Command) messageSet {
	table := messagesFR
	if locale == "en" {
		table = messagesEN
	}

	if set, ok := table[cmd]; ok {
		return set
	}
	return messageSet{
		started: fmt.Sprintf("%s…", cmd),
		done:    fmt.Sprintf("%s : ok", cmd),
		failed:  string(cmd) + " : %s",
		timeout: fmt.Sprintf("%s : délai d'attente dépassé", cmd),
	}
}
