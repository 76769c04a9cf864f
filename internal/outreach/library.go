package outreach

import (
	"fmt"

	"github.com/clinicware/reengage/internal/channels"
)

// DefaultSequences returns the stock outreach catalog. Templates use
// {nome}/{clinica} tokens resolved at dispatch time.
func DefaultSequences() []Sequence {
	return []Sequence{
		{
			Trigger:     TriggerPostTreatment,
			Name:        "Pós-tratamento",
			Description: "Follow-up after a completed treatment",
			Steps: []SequenceStep{
				{Order: 1, DaysAfterStart: 1, Channel: channels.ChannelWhatsApp,
					MessageTemplate: "Olá {nome}! Como você está se sentindo após o tratamento na {clinica}? Qualquer desconforto, fale com a gente."},
				{Order: 2, DaysAfterStart: 7, Channel: channels.ChannelSMS,
					MessageTemplate: "{nome}, já faz uma semana desde seu tratamento na {clinica}. Lembre-se dos cuidados recomendados!",
					Condition:       "if no reply to step 1"},
				{Order: 3, DaysAfterStart: 30, Channel: channels.ChannelEmail,
					Subject:         "Hora da sua avaliação de retorno",
					MessageTemplate: "Olá {nome}, um mês se passou desde seu tratamento. Agende sua avaliação de retorno na {clinica}."},
			},
		},
		{
			Trigger:     TriggerReactivation,
			Name:        "Reativação",
			Description: "Bring back patients who stopped visiting",
			Steps: []SequenceStep{
				{Order: 1, DaysAfterStart: 0, Channel: channels.ChannelWhatsApp,
					MessageTemplate: "Oi {nome}, sentimos sua falta na {clinica}! Que tal agendar uma consulta de retorno?"},
				{Order: 2, DaysAfterStart: 5, Channel: channels.ChannelEmail,
					Subject:         "Sentimos sua falta!",
					MessageTemplate: "{nome}, preparamos uma condição especial para seu retorno à {clinica}. Responda este e-mail para saber mais.",
					Condition:       "if no reply"},
				{Order: 3, DaysAfterStart: 12, Channel: channels.ChannelSMS,
					MessageTemplate: "{nome}, última chamada: sua condição especial na {clinica} expira em breve!",
					Condition:       "if no booking after step 2"},
			},
		},
		{
			Trigger:     TriggerPreventive,
			Name:        "Preventivo",
			Description: "Periodic preventive check-up reminders",
			Steps: []SequenceStep{
				{Order: 1, DaysAfterStart: 0, Channel: channels.ChannelSMS,
					MessageTemplate: "{nome}, está na hora do seu check-up preventivo na {clinica}. Responda SIM para agendar."},
				{Order: 2, DaysAfterStart: 10, Channel: channels.ChannelWhatsApp,
					MessageTemplate: "Oi {nome}! Não deixe seu check-up para depois. A {clinica} tem horários disponíveis esta semana.",
					Condition:       "if not scheduled"},
			},
		},
		{
			Trigger:     TriggerLoyalty,
			Name:        "Fidelidade",
			Description: "Reward frequent patients",
			Steps: []SequenceStep{
				{Order: 1, DaysAfterStart: 0, Channel: channels.ChannelEmail,
					Subject:         "Obrigado pela confiança!",
					MessageTemplate: "{nome}, você é um dos pacientes mais assíduos da {clinica}. Como agradecimento, sua próxima limpeza tem prioridade de agenda."},
				{Order: 2, DaysAfterStart: 3, Channel: channels.ChannelWhatsApp,
					MessageTemplate: "Oi {nome}! Viu nosso e-mail? Seu benefício de fidelidade na {clinica} está ativo."},
			},
		},
		{
			Trigger:     TriggerRecovery,
			Name:        "Recuperação",
			Description: "Last-resort outreach for long-dormant patients",
			Steps: []SequenceStep{
				{Order: 1, DaysAfterStart: 0, Channel: channels.ChannelWhatsApp,
					MessageTemplate: "{nome}, faz muito tempo que não nos vemos na {clinica}. Preparamos uma oferta exclusiva para seu retorno."},
				{Order: 2, DaysAfterStart: 7, Channel: channels.ChannelSMS,
					MessageTemplate: "{nome}, sua oferta exclusiva de retorno à {clinica} ainda está disponível. Vamos agendar?",
					Condition:       "if no reply"},
				{Order: 3, DaysAfterStart: 21, Channel: channels.ChannelEmail,
					Subject:         "Podemos ajudar em algo?",
					MessageTemplate: "Olá {nome}, queremos entender como podemos cuidar melhor de você. Este é nosso último contato — responda se quiser continuar recebendo lembretes da {clinica}.",
					Condition:       "if still no booking"},
			},
		},
	}
}

// Library is a static, read-only sequence catalog keyed by trigger type.
type Library struct {
	sequences map[TriggerType]Sequence
}

// NewLibrary builds a library from the given sequences. With no arguments it
// loads the stock catalog.
func NewLibrary(sequences ...Sequence) *Library {
	if len(sequences) == 0 {
		sequences = DefaultSequences()
	}
	m := make(map[TriggerType]Sequence, len(sequences))
	for _, s := range sequences {
		m[s.Trigger] = s
	}
	return &Library{sequences: m}
}

// Get looks up the sequence for a trigger.
func (l *Library) Get(trigger TriggerType) (Sequence, error) {
	seq, ok := l.sequences[trigger]
	if !ok {
		return Sequence{}, fmt.Errorf("%w: trigger %q", ErrSequenceNotFound, trigger)
	}
	return seq, nil
}

// Triggers lists the configured trigger types.
func (l *Library) Triggers() []TriggerType {
	out := make([]TriggerType, 0, len(l.sequences))
	for t := range l.sequences {
		out = append(out, t)
	}
	return out
}
