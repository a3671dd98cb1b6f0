package publicauth

import apperrors "github.com/studentreg/web/internal/services/web/platform/errors"

var errAuthUnavailable = apperrors.EK(apperrors.KindUnavailable, "core.error.server_description", "auth service is not configured")
