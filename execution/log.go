package execution

import (
	"github.com/tr11/hiero-sdk-go/infrastructure/logger"
)

var log = logger.RegisterSubSystem("EXEC")
