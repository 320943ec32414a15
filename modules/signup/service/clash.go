package service

import (
	"strings"

	"hub-crm-api/core/utils"
	eventEntity "hub-crm-api/modules/event/entity"
	rotaEntity "hub-crm-api/modules/rota/entity"
)

const clashMessage = "Your rota selections are clashing, please change one of your rota signups"

// Selection is one {rota, occurrence} pair from a public signup submission.
// OccurrenceID may be empty for rotas pinned to a single occurrence.
type Selection struct {
	RotaID       string `json:"rota_id"`
	OccurrenceID string `json:"occurrence_id,omitempty"`
}

// ClashDetector validates a signup batch against a snapshot of the rotas and
// occurrences involved. It holds plain data, so detection logic is testable
// without any store behind it.
type ClashDetector struct {
	Rotas       []rotaEntity.Rota
	Occurrences map[string]eventEntity.Occurrence
}

func (d *ClashDetector) rotaByID(id string) *rotaEntity.Rota {
	for i := range d.Rotas {
		if d.Rotas[i].ID.String() == id {
			return &d.Rotas[i]
		}
	}
	return nil
}

// EffectiveOccurrence resolves a selection's target occurrence: the explicit
// choice when given, else the referenced rota's own pinned occurrence.
func (d *ClashDetector) EffectiveOccurrence(sel Selection) string {
	if sel.OccurrenceID != "" {
		return sel.OccurrenceID
	}
	if rota := d.rotaByID(sel.RotaID); rota != nil {
		return rota.PinnedOccurrence()
	}
	return ""
}

// Validate runs the pre-mutation checks in order. An empty result means the
// batch may proceed to capacity application.
//
// Check order matters: an intra-batch double-claim short-circuits with one
// deliberately vague message; missing rotas and prior commitments accumulate
// so the submitter sees every problem at once.
func (d *ClashDetector) Validate(selections []Selection, submitterEmail string) []string {
	occurrenceCounts := make(map[string]int)
	for _, sel := range selections {
		if eff := d.EffectiveOccurrence(sel); eff != "" {
			occurrenceCounts[eff]++
		}
	}
	for _, count := range occurrenceCounts {
		if count > 1 {
			return []string{clashMessage}
		}
	}

	var errs []string
	for _, sel := range selections {
		rota := d.rotaByID(sel.RotaID)
		if rota == nil {
			errs = append(errs, "Rota not found: "+sel.RotaID)
			continue
		}

		target := d.EffectiveOccurrence(sel)
		if target == "" {
			continue
		}

		// The submitter may already hold a slot on this occurrence through
		// any rota of the same event, not just the one selected.
		if msg := d.priorCommitment(rota, target, submitterEmail); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

func (d *ClashDetector) priorCommitment(selected *rotaEntity.Rota, target, submitterEmail string) string {
	for i := range d.Rotas {
		r := &d.Rotas[i]
		if r.EventID != selected.EventID || !r.AppliesTo(target) {
			continue
		}
		for _, a := range r.AssigneesFor(target) {
			if a.AdHoc() && strings.EqualFold(a.Email, submitterEmail) {
				occTime := "this occurrence"
				if occ, ok := d.Occurrences[target]; ok {
					occTime = utils.FormatDateTimeUK(occ.StartsAt)
				}
				return "You are already signed up for a rota on " + occTime
			}
		}
	}
	return ""
}
