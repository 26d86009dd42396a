package worker

import (
	"github.com/spec-kit/storage-gateway/internal/service"
)

// StartAuditWorker registers audit trail handlers on the event stream.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
