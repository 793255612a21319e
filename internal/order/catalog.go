package order

// ProblemCatalog maps each lifecycle stage to the incident descriptions that
// can be reported at that stage. It is read-only configuration consumed by
// presentation layers to populate incident selectors; the service itself only
// requires a non-empty description, so free-text incidents remain possible.
var ProblemCatalog = map[Status][]string{
	StatusInitiated: {
		"Pagamento não processado",
		"Pedido recusado pelo cliente",
	},
	StatusPrepared: {
		"Pedido frio",
		"Erro ao adicionar condimentos",
		"Produto indisponível",
	},
	StatusDelivered: {
		"Item faltando",
		"Item incorreto",
		"Pedido trocado",
		"Embalagem danificada",
		"Bebida derramada",
	},
}

// ProblemsFor returns the reportable incident descriptions for a stage.
// Stages with no catalog entries (e.g., Cancelled) return nil.
func ProblemsFor(stage Status) []string {
	problems := ProblemCatalog[stage]
	out := make([]string, len(problems))
	copy(out, problems)
	return out
}
