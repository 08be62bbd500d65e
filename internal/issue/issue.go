// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	InterpreterNotFoundId Id = iota + 1
	VenvCreateFailedId
	DependencyInstallFailedId
	InvalidMenuChoiceId
	ProgramNotFoundId
	DeviceNotFoundId
	DevicePermissionDeniedId
	ContainerEngineNotFoundId
	ConfigLoadFailedId
	ServeStartFailedId
	JournalOpenFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	interpreterNotFoundIssue = &Issue{
		id: InterpreterNotFoundId,
		mdMsg: `
# Python interpreter not found!

The launcher needs a Python 3 interpreter on your PATH, and none was found.

## Things you can try:
- Install Python 3:
  - Linux: ` + "`sudo apt install python3 python3-venv`" + ` or ` + "`sudo dnf install python3`" + `
  - macOS: ` + "`brew install python3`" + `
  - Windows: https://www.python.org/downloads/ (tick "Add python.exe to PATH")

- Verify the installation:
~~~
$ python3 --version
~~~

- If your interpreter has a different name, point the config at it:
~~~cue
interpreter: "python3.12"
~~~`,
	}

	venvCreateFailedIssue = &Issue{
		id: VenvCreateFailedId,
		mdMsg: `
# Failed to create the virtual environment!

Creating the Python virtual environment did not complete.

## Common causes:
- The venv module is missing (Debian/Ubuntu split it out of the python3 package)
- No write permission in the working directory
- Disk full

## Things you can try:
- Install the venv module:
~~~
$ sudo apt install python3-venv
~~~

- Create it manually to see the full error:
~~~
$ python3 -m venv venv
~~~

- Remove a half-created directory and retry:
~~~
$ rm -rf venv
$ gpskit setup
~~~`,
	}

	dependencyInstallFailedIssue = &Issue{
		id: DependencyInstallFailedId,
		mdMsg: `
# Dependency installation failed!

pip could not install the packages listed in requirements.txt.

## Common causes:
- No network connection (or a proxy in the way)
- A package version in requirements.txt no longer exists
- A package needs build tools that are not installed

## Things you can try:
- Re-run the install by itself to see pip's full output:
~~~
$ ./venv/bin/python -m pip install -r requirements.txt
~~~

- Upgrade pip inside the environment first:
~~~
$ ./venv/bin/python -m pip install --upgrade pip
~~~

- Check the requirements manifest:
~~~
$ gpskit doctor
~~~`,
	}

	invalidMenuChoiceIssue = &Issue{
		id: InvalidMenuChoiceId,
		mdMsg: `
# That's not one of the menu options!

The menu accepts exactly "1", "2" or "3" followed by Enter.

## The options:
- **1**: Test the GPS connection
- **2**: Capture GPS data
- **3**: Exit

Leading or trailing spaces are not ignored, so type just the digit.`,
	}

	programNotFoundIssue = &Issue{
		id: ProgramNotFoundId,
		mdMsg: `
# Entry program not found!

The Python program the menu dispatches to does not exist in the working
directory.

## Things you can try:
- Check which programs are configured:
~~~
$ gpskit config show
~~~

- Run the launcher from the directory that contains the programs:
~~~
$ cd /path/to/gps-tools
$ gpskit
~~~

- Or point the config at their location:
~~~cue
programs: {
	test:    "tools/gps_test.py"
	capture: "tools/gps_capture.py"
}
~~~`,
	}

	deviceNotFoundIssue = &Issue{
		id: DeviceNotFoundId,
		mdMsg: `
# No GPS receiver found!

No serial port matching a known GPS receiver was detected.

## Things you can try:
- Check the cable and the USB port (try a different port; avoid unpowered hubs)
- On Linux, confirm the kernel sees the device:
~~~
$ lsusb
$ ls /dev/serial/by-id/
~~~

- On macOS, Prolific/Silicon Labs adapters need a driver before
  /dev/tty.usbserial* appears
- On Windows, check Device Manager for the COM port number and set it:
~~~cue
device: port: "COM4"
~~~

- Wait for hotplug detection:
~~~
$ gpskit doctor --wait
~~~`,
	}

	devicePermissionDeniedIssue = &Issue{
		id: DevicePermissionDeniedId,
		mdMsg: `
# No permission to read the GPS receiver!

The serial port exists but your user cannot open it.

## Things you can try:
- On Linux, add yourself to the dialout group and log out/in again:
~~~
$ sudo usermod -aG dialout $USER
~~~

- Verify the group took effect:
~~~
$ groups
~~~

- As a one-off check (not a fix), confirm root can read it:
~~~
$ sudo cat /dev/ttyUSB0
~~~`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

You asked for the container runtime but neither Podman nor Docker is
available.

## Things you can try:
- Install Podman:
  - Linux: ` + "`sudo apt install podman`" + ` or ` + "`sudo dnf install podman`" + `
  - macOS: ` + "`brew install podman`" + `

- Install Docker:
  - https://docs.docker.com/get-docker/

- Or stay on the native runtime (the default):
~~~cue
runtime: "native"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the gpskit configuration file.

## Configuration file locations:
- Linux: ~/.config/gpskit/config.cue
- macOS: ~/Library/Application Support/gpskit/config.cue
- Windows: %APPDATA%\gpskit\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ gpskit config init
~~~

- Check the syntax error reported above; the path points at the bad field
- Remove the config file to fall back to defaults:
~~~
$ rm ~/.config/gpskit/config.cue
~~~

## Example configuration:
~~~cue
interpreter: "python3"
env: dir:    "venv"

device: {
	port: "/dev/ttyUSB0"
	baud: 4800
}

ui: {
	color_scheme: "auto"
	verbose:      false
}
~~~`,
	}

	serveStartFailedIssue = &Issue{
		id: ServeStartFailedId,
		mdMsg: `
# Could not start the SSH menu server!

The remote menu server failed to start.

## Common causes:
- The configured port is already in use
- Binding to a privileged port (below 1024) without permission
- The host address is not assigned to this machine

## Things you can try:
- Let the server pick a free port:
~~~cue
serve: port: 0
~~~

- Check what is holding the port:
~~~
$ ss -tlnp | grep 2222
~~~

- Bind to localhost while testing:
~~~cue
serve: host: "127.0.0.1"
~~~`,
	}

	journalOpenFailedIssue = &Issue{
		id: JournalOpenFailedId,
		mdMsg: `
# Session journal unavailable!

The session journal could not be opened. Launches still work; history is
just not being recorded.

## Things you can try:
- Check the journal path and its directory permissions:
~~~
$ gpskit config show
~~~

- Remove a corrupted journal file (history is lost, schema is recreated):
~~~
$ rm ~/.config/gpskit/journal.db
~~~

- Or disable the journal:
~~~cue
journal: enabled: false
~~~`,
	}

	issues = map[Id]*Issue{
		interpreterNotFoundIssue.Id():     interpreterNotFoundIssue,
		venvCreateFailedIssue.Id():        venvCreateFailedIssue,
		dependencyInstallFailedIssue.Id(): dependencyInstallFailedIssue,
		invalidMenuChoiceIssue.Id():       invalidMenuChoiceIssue,
		programNotFoundIssue.Id():         programNotFoundIssue,
		deviceNotFoundIssue.Id():          deviceNotFoundIssue,
		devicePermissionDeniedIssue.Id():  devicePermissionDeniedIssue,
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		serveStartFailedIssue.Id():        serveStartFailedIssue,
		journalOpenFailedIssue.Id():       journalOpenFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
