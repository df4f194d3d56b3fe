package nodemanager

import (
	"github.com/tr11/hiero-sdk-go/infrastructure/logger"
	"github.com/tr11/hiero-sdk-go/util/panics"
)

var log = logger.RegisterSubSystem("NODE")
var spawn = panics.GoroutineWrapperFunc(log)
