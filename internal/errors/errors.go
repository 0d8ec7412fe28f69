package errors

import "errors"

var (
	ErrConfigNotFound                = errors.New("configuration file not found")
	ErrConfigFormat                  = errors.New("invalid configuration format")
	ErrUnresolvedSecretReference     = errors.New("unresolved secret reference")
	ErrUnresolvedConnectionReference = errors.New("unresolved connection reference")
	ErrUnknownPipeline               = errors.New("unknown pipeline")
	ErrAWSConnectivity               = errors.New("unable to connect to AWS")
	ErrTableNotFound                 = errors.New("dynamodb table not found")
	ErrIdentifierCollision           = errors.New("identifier collision")
)
