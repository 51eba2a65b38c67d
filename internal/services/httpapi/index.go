package httpapi

import "html/template"

var indexTmpl = template.Must(template.New("").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <title>wolgate</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <style>
body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  background: #111827;
  color: #f9fafb;
  margin: 0;
  padding: 16px;
}

h1 {
  font-size: 1.5rem;
  font-weight: 500;
}

label {
  display: block;
  margin: 12px 0 4px;
  color: #9ca3af;
}

input[type=text], input[type=number] {
  width: 100%;
  max-width: 24rem;
  padding: 8px;
  border-radius: 8px;
  border: 1px solid #374151;
  background: #1f2937;
  color: inherit;
}

button {
  margin-top: 16px;
  padding: 12px 24px;
  font-size: 1.1rem;
  border: none;
  border-radius: 12px;
  background: #22c55e;
  color: #111827;
  cursor: pointer;
}

pre {
  background: #1f2937;
  padding: 12px;
  border-radius: 8px;
  white-space: pre-wrap;
}
  </style>
</head>
<body>
<h1>Wake-on-LAN</h1>

<form id="wake-form">
  <label for="mac">MAC address</label>
  <input type="text" id="mac" name="macAddress" placeholder="{{ if .DefaultMAC }}{{ .DefaultMAC }} (default){{ else }}00:11:22:33:44:55{{ end }}">

  <label for="broadcast">Broadcast address</label>
  <input type="text" id="broadcast" name="broadcastAddress" placeholder="{{ .BroadcastAddress }}">

  <label for="port">Port</label>
  <input type="number" id="port" name="port" min="1" max="65535" placeholder="{{ .Port }}">

  <label for="iface">Interface address</label>
  <input type="text" id="iface" name="interfaceAddress" placeholder="any">

  <label><input type="checkbox" id="all" name="useAllInterfaces"> Send on all interfaces</label>

  <button type="submit">Wake up</button>
</form>

<pre id="result"></pre>

<script>
document.getElementById('wake-form').addEventListener('submit', async (ev) => {
  ev.preventDefault();
  const body = {
    macAddress: document.getElementById('mac').value.trim(),
    broadcastAddress: document.getElementById('broadcast').value.trim(),
    interfaceAddress: document.getElementById('iface').value.trim(),
    useAllInterfaces: document.getElementById('all').checked,
  };
  const port = parseInt(document.getElementById('port').value, 10);
  if (!isNaN(port)) {
    body.port = port;
  }
  const out = document.getElementById('result');
  out.textContent = 'sending…';
  try {
    const resp = await fetch('/wakeup', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify(body),
    });
    out.textContent = 'HTTP ' + resp.status + '\n' + JSON.stringify(await resp.json(), null, 2);
  } catch (err) {
    out.textContent = String(err);
  }
});
</script>
</body>
</html>`))
