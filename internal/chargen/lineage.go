package chargen

import (
	"context"
	"fmt"
	"sort"

	"chargen-backend/internal/models"

	"golang.org/x/sync/errgroup"
)

type Richtung string

const (
	RichtungVorwaerts   Richtung = "vorwaerts"   // wohin ist die Charge geflossen
	RichtungRueckwaerts Richtung = "rueckwaerts" // woraus wurde die Charge hergestellt
)

// VerfolgungsKnoten: ein Knoten im Verfolgungsbaum für den UI-Drilldown.
// Menge ist die über die Kante verbrauchte Menge (0 an der Wurzel).
type VerfolgungsKnoten struct {
	ChargeID      uint                 `json:"charge_id"`
	Chargennummer string               `json:"chargennummer"`
	Menge         float64              `json:"menge"`
	Einheit       string               `json:"einheit"`
	Tiefe         int                  `json:"tiefe"`
	Kinder        []*VerfolgungsKnoten `json:"kinder,omitempty"`
}

// Verfolgung: Ergebnis einer Vorwärts- oder Rückwärtsauflösung.
// Chargen enthält jede erreichte Charge genau einmal (ohne die Startcharge),
// auch wenn sie über mehrere Pfade erreichbar ist.
type Verfolgung struct {
	StartChargeID uint                    `json:"start_charge_id"`
	Richtung      Richtung                `json:"richtung"`
	Wurzel        *VerfolgungsKnoten      `json:"wurzel"`
	Chargen       map[uint]models.Charge  `json:"chargen"`
}

// ChargenIDs: flache, sortierte Menge der erreichten Chargen-IDs
func (v *Verfolgung) ChargenIDs() []uint {
	ids := make([]uint, 0, len(v.Chargen))
	for id := range v.Chargen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// VerfolgungsResolver: löst den Verbrauchsgraphen per BFS auf.
// Repository-Zugriffe innerhalb einer Frontier-Welle laufen parallel,
// begrenzt durch limit, damit das Repository nicht überrannt wird.
type VerfolgungsResolver struct {
	repo  Repository
	limit int
}

func NewVerfolgungsResolver(repo Repository) *VerfolgungsResolver {
	return &VerfolgungsResolver{repo: repo, limit: 8}
}

func (r *VerfolgungsResolver) ResolveVorwaerts(ctx context.Context, chargeID uint) (*Verfolgung, error) {
	return r.resolve(ctx, chargeID, RichtungVorwaerts)
}

func (r *VerfolgungsResolver) ResolveRueckwaerts(ctx context.Context, chargeID uint) (*Verfolgung, error) {
	return r.resolve(ctx, chargeID, RichtungRueckwaerts)
}

// nachbarID: die Gegenseite einer Kante in Traversierungsrichtung
func nachbarID(e models.ChargenVerfolgung, richtung Richtung) uint {
	if richtung == RichtungVorwaerts {
		return e.VerbraucherChargeID
	}
	return e.ErzeugerChargeID
}

func (r *VerfolgungsResolver) kanten(ctx context.Context, chargeID uint, richtung Richtung) ([]models.ChargenVerfolgung, error) {
	if richtung == RichtungVorwaerts {
		return r.repo.GetVerbraucherEdges(ctx, chargeID)
	}
	return r.repo.GetErzeugerEdges(ctx, chargeID)
}

func (r *VerfolgungsResolver) resolve(ctx context.Context, startID uint, richtung Richtung) (*Verfolgung, error) {
	start, err := r.repo.GetCharge(ctx, startID)
	if err != nil {
		return nil, err
	}

	wurzel := &VerfolgungsKnoten{
		ChargeID:      start.ID,
		Chargennummer: start.Chargennummer,
		Einheit:       start.Einheit,
	}
	v := &Verfolgung{
		StartChargeID: startID,
		Richtung:      richtung,
		Wurzel:        wurzel,
		Chargen:       make(map[uint]models.Charge),
	}

	type frontierItem struct {
		node *VerfolgungsKnoten
	}
	type expansion struct {
		edges    []models.ChargenVerfolgung
		nachbarn map[uint]*models.Charge
	}

	frontier := []frontierItem{{node: wurzel}}
	// Jede Charge wird genau einmal expandiert, sonst explodiert der Aufwand
	// bei rautenförmigen Graphen. Bei Mehrfacherreichbarkeit erscheint sie im
	// Baum als Blatt ohne eigene Kinder.
	expandiert := map[uint]struct{}{startID: {}}
	// Alle traversierten Kanten für die Zyklusprüfung nach dem BFS
	var alleKanten []models.ChargenVerfolgung

	for len(frontier) > 0 {
		// kooperativer Abbruch zwischen den Wellen
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		results := make([]expansion, len(frontier))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.limit)

		for i, it := range frontier {
			i, it := i, it
			g.Go(func() error {
				edges, err := r.kanten(gctx, it.node.ChargeID, richtung)
				if err != nil {
					return err
				}
				nachbarn := make(map[uint]*models.Charge, len(edges))
				for _, e := range edges {
					nid := nachbarID(e, richtung)
					ch, err := r.repo.GetCharge(gctx, nid)
					if err != nil {
						return fmt.Errorf("kante %d -> %d: %w", it.node.ChargeID, nid, err)
					}
					nachbarn[nid] = ch
				}
				results[i] = expansion{edges: edges, nachbarn: nachbarn}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		// Ergebnisse sequentiell einhängen, damit Baum und Mengen
		// deterministisch bleiben
		var next []frontierItem
		for i, it := range frontier {
			for _, e := range results[i].edges {
				nid := nachbarID(e, richtung)
				ch := results[i].nachbarn[nid]

				kind := &VerfolgungsKnoten{
					ChargeID:      nid,
					Chargennummer: ch.Chargennummer,
					Menge:         e.Menge,
					Einheit:       e.Einheit,
					Tiefe:         it.node.Tiefe + 1,
				}
				it.node.Kinder = append(it.node.Kinder, kind)

				if _, ok := v.Chargen[nid]; !ok {
					v.Chargen[nid] = *ch
				}
				alleKanten = append(alleKanten, e)

				if _, done := expandiert[nid]; !done {
					expandiert[nid] = struct{}{}
					next = append(next, frontierItem{node: kind})
				}
			}
		}
		frontier = next
	}

	// Ein Zyklus ist ein Datenintegritätsfehler, keine stille Kürzung.
	// Die Prüfung läuft über alle traversierten Kanten, weil ein Pfad-Check
	// allein Zyklen hinter bereits expandierten Chargen übersehen würde.
	if zyklusID, ok := findeZyklus(startID, alleKanten, richtung); ok {
		return nil, fmt.Errorf("%w: charge %d ist in ihrer eigenen verfolgung enthalten", ErrZyklischeVerfolgung, zyklusID)
	}

	return v, nil
}

// findeZyklus: iterative Tiefensuche mit Dreifärbung über die traversierten
// Kanten. Liefert eine am Zyklus beteiligte Chargen-ID.
func findeZyklus(startID uint, kanten []models.ChargenVerfolgung, richtung Richtung) (uint, bool) {
	adj := make(map[uint][]uint)
	for _, e := range kanten {
		var von, nach uint
		if richtung == RichtungVorwaerts {
			von, nach = e.ErzeugerChargeID, e.VerbraucherChargeID
		} else {
			von, nach = e.VerbraucherChargeID, e.ErzeugerChargeID
		}
		adj[von] = append(adj[von], nach)
	}

	const (
		unbesucht = 0
		aktiv     = 1
		fertig    = 2
	)
	status := make(map[uint]int)

	type rahmen struct {
		id   uint
		next int
	}
	stack := []rahmen{{id: startID}}
	status[startID] = aktiv

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		nachbarn := adj[top.id]

		if top.next >= len(nachbarn) {
			status[top.id] = fertig
			stack = stack[:len(stack)-1]
			continue
		}

		n := nachbarn[top.next]
		top.next++

		switch status[n] {
		case aktiv:
			return n, true
		case unbesucht:
			status[n] = aktiv
			stack = append(stack, rahmen{id: n})
		}
	}

	return 0, false
}
