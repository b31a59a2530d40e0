package constant

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}

// Credential transport for gated routes.
const (
	AccessKeyHeader = "X-Access-Key"
	AccessKeyParam  = "access_key"
)
