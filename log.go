package flatsurf

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// pkgLogger holds the package wide *zap.Logger. Algorithms in this package
// emit debug traces of flips, collapses and deformation steps through it.
var pkgLogger atomic.Pointer[zap.Logger]

func init() {
	pkgLogger.Store(zap.NewNop())
}

// SetLogger routes the package's debug output to l. By default nothing is
// logged. Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	pkgLogger.Store(l)
}

func logger() *zap.Logger {
	return pkgLogger.Load()
}
