package trace

import "io"

const clientBanner = `_________ .__  .__               __
\_   ___ \|  | |__| ____   _____/  |_
/    \  \/|  | |  |/ __ \ /    \   __\
\     \___|  |_|  \  ___/|   |  \  |
 \______  /____/__|\___  >___|  /__|
        \/             \/     \/
`

const serverBanner = `  _________
 /   _____/ ______________  __ ___________
 \_____  \_/ __ \_  __ \  \/ // __ \_  __ \
 /        \  ___/|  | \/\   /\  ___/|  | \/
/_______  /\___  >__|    \_/  \___  >__|
        \/     \/                 \/
`

// Separator precedes the handshake trace.
const Separator = "------------------------------------------------------------------\n"

func ClientBanner(w io.Writer) {
	io.WriteString(w, clientBanner)
}

func ServerBanner(w io.Writer) {
	io.WriteString(w, serverBanner)
}
