package console

import "io"

var planet = []string{
	"                             `. ___",
	"                    __,' __`.                _..----....____",
	"        __...--.'``;.   ,.   ;``--..__     .'    ,-._    _.-'",
	"  _..-''-------'   `'   `'   `'     O ``-''._   (,;') _,'",
	",'________________                          \\`-._`-','",
	" `._              ```````````------...___   '-.._'-:",
	"    ```--.._      ,.                     ````--...__\\-.",
	"            `.--. `-`                       ____    |  |`",
	"              `. `.                       ,'`````.  ;  ;`",
	"                `._`.        __________   `.      \\'__/`",
	"                   `-:._____/______/___/____`.     \\  `",
	"                               |       `._    `.    \\",
	"                               `._________`-.   `.   `.___",
	"                                             SSt  `------'",
}

var headline = []string{
	" _____  _                  _     ______",
	"|  __ \\| |                | |   |  ____|",
	"| |__) | | __ _ _ __   ___| |_  | |__  __  ___ __  _ __ ___  ___ ___",
	"|  ___/| |/ _` | '_ \\ / _ \\ __| |  __| \\ \\/ / '_ \\| '__/ _ \\/ __/ __|",
	"| |    | | (_| | | | |  __/ |_  | |____ >  <| |_) | | |  __/\\__ \\__ \\",
	"|_|    |_|\\__,_|_| |_|\\___|\\__| |______/_/\\_\\ .__/|_|  \\___||___/___/",
	"                                            | |  Automation Tools",
	"                                            |_|  Azure CosmosDB",
}

// Banner writes the start-up art.
func Banner(w io.Writer, palette *Palette) {
	for _, line := range planet {
		palette.Planet.Fprintln(w, line)
	}
	for _, line := range headline {
		palette.Headline.Fprintln(w, line)
	}
}
