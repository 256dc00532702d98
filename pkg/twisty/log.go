package twisty

import "github.com/sirupsen/logrus"

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used to report rejected operations.
// Passing nil restores the logrus standard logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger = l
}

// reject logs err at debug level and returns it unchanged.
func reject(op string, err error) error {
	logger.WithField("op", op).WithError(err).Debug("twisty: operation rejected")
	return err
}
