package push

import (
	"log/slog"

	"github.com/ptarling/trolley/internal/store"
)

// Notifier fans a list-change notification out to the push subscriptions of
// the list's other members. Sends run in a goroutine; delivery failures are
// logged, and expired subscriptions are pruned.
type Notifier struct {
	service *Service
	subs    *store.PushStore
	logger  *slog.Logger
}

func NewNotifier(service *Service, subs *store.PushStore, logger *slog.Logger) *Notifier {
	return &Notifier{service: service, subs: subs, logger: logger}
}

// NotifyListMembers sends payload to every member of listID except actorID.
func (n *Notifier) NotifyListMembers(listID, actorID int64, payload Payload) {
	subs, err := n.subs.ListForListMembers(listID, actorID)
	if err != nil {
		n.logger.Error("load member subscriptions", "list_id", listID, "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	go func() {
		for i := range subs {
			sub := subs[i]
			if err := n.service.Send(&sub, payload); err != nil {
				if err == ErrExpired {
					if delErr := n.subs.Delete(sub.ID); delErr != nil {
						n.logger.Error("prune expired subscription", "id", sub.ID, "error", delErr)
					}
					continue
				}
				n.logger.Warn("push delivery failed", "id", sub.ID, "error", err)
			}
		}
	}()
}
