package param

type GlobalOpts struct {
	Branch       string `arg:"-b,--branch" help:"target branch"`
	Folder       string `arg:"-f,--folder" help:"folder within the repository, with trailing slash"`
	RepositoryId string `arg:"-r,--repository-id" help:"GitLab project id"`
	Backend      string `arg:"--backend" help:"git backend, api or clone"`
	RemoteUrl    string `arg:"--remote-url" help:"remote for the clone backend"`
	Vault        bool   `arg:"--vault" help:"read tokens from the secrets vault"`
}

type PayloadArg struct {
	Payload string `arg:"positional" help:"path to an event payload, - for stdin, omit for a test invocation"`
}

type Invoke struct {
	Json bool `arg:"-j,--json" help:"print output as JSON"`
	PayloadArg
}

type Config struct {
	PayloadArg
}

type Path struct {
	Name string `arg:"positional,required" help:"blueprint name"`
}

type Serve struct {
	Addr string `arg:"-a,--addr,env:BPSYNC_LISTEN_ADDR" help:"listen address" default:"0.0.0.0:8081"`
}
