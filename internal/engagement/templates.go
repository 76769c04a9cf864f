package engagement

// CampaignMessage is one status-tailored reactivation message variant.
type CampaignMessage struct {
	Subject  string
	Body     string
	OfferPct int
}

// CampaignTemplates maps an activity status to its message variant. Statuses
// without an entry fall back to the generic variant keyed by StatusLost.
type CampaignTemplates map[ActivityStatus]CampaignMessage

// DefaultCampaignTemplates returns the stock reactivation variants. Tone and
// offer escalate with how far the patient has drifted: a gentle nudge for
// at-risk patients, 20% off for inactive, 30% off for dormant, and a generic
// last-call message for everyone else.
func DefaultCampaignTemplates() CampaignTemplates {
	return CampaignTemplates{
		StatusAtRisk: {
			Subject: "Sentimos sua falta, {nome}!",
			Body:    "Oi {nome}! Já faz um tempinho desde sua última visita à {clinica}. Que tal agendar um check-up preventivo? Cuidar da saúde em dia evita surpresas.",
		},
		StatusInactive: {
			Subject:  "Uma condição especial para seu retorno",
			Body:     "Olá {nome}, sentimos sua falta na {clinica}! Para facilitar seu retorno, preparamos 20% de desconto na sua próxima consulta. Vamos agendar?",
			OfferPct: 20,
		},
		StatusDormant: {
			Subject:  "Queremos você de volta, {nome}",
			Body:     "{nome}, faz muito tempo que não nos vemos na {clinica}. Preparamos uma oferta especial de 30% de desconto para sua consulta de retorno. Essa condição é por tempo limitado!",
			OfferPct: 30,
		},
		StatusLost: {
			Subject: "A {clinica} está de portas abertas",
			Body:    "Olá {nome}, a {clinica} continua à sua disposição. Se quiser retomar seu acompanhamento, temos condições especiais para seu retorno. Responda esta mensagem para saber mais.",
		},
	}
}

// For returns the variant for a status, falling back to the generic message.
func (t CampaignTemplates) For(status ActivityStatus) CampaignMessage {
	if msg, ok := t[status]; ok {
		return msg
	}
	return t[StatusLost]
}
