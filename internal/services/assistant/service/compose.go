package service

import (
	"context"
	"strings"

	"tdsdesk/internal/platform/logger"
	"tdsdesk/internal/services/assistant/domain"
	pdom "tdsdesk/internal/services/products/domain"
)

// compose phrases the answer for a matched product
// an oracle failure or empty reply yields the plain fact sheet and degraded=true
func (s *Service) compose(ctx context.Context, log *logger.Logger, p pdom.Product) (string, bool) {
	sheet := domain.SheetFor(p)
	out, err := s.Oracle.ComposeText(ctx, sheet.String())
	if err != nil {
		log.Warn().Err(err).Str("code", p.Code).Msg("compose failed, answering with fact sheet")
		return sheet.Plain(), true
	}
	out = strings.TrimSpace(out)
	if out == "" {
		log.Warn().Str("code", p.Code).Msg("compose returned empty text, answering with fact sheet")
		return sheet.Plain(), true
	}
	return out, false
}
