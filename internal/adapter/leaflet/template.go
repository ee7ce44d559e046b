package leaflet

import "html/template"

var labelTmpl = template.Must(template.New("label").Parse(
	`<i class="fa fa-map-marker fa-2x" style="color:{{.Color}}"></i> {{.Name}}`))

var popupTmpl = template.Must(template.New("popup").Parse(
	`<div style='font-size:14px;'><b style='font-size:16px;'>{{.Name}}</b><br>` +
		`<b>Type:</b> {{.Category}}<br>` +
		`<b>Address:</b> {{.Street}}, {{.Municipality}}<br>` +
		`<b>Phone:</b> {{.Phone}}<br>` +
		`<a href='{{.Link}}' target='_blank'>View on Google Places</a></div>`))

// pageTmpl is the full document. Markers are emitted as data and built
// client-side, so the output depends only on the layer contents.
var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Strutture sanitarie</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/leaflet@1.9.3/dist/leaflet.css">
<link rel="stylesheet" href="https://netdna.bootstrapcdn.com/bootstrap/3.0.0/css/bootstrap-glyphicons.css">
<link rel="stylesheet" href="https://maxcdn.bootstrapcdn.com/font-awesome/4.7.0/css/font-awesome.min.css">
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/Leaflet.awesome-markers/2.0.2/leaflet.awesome-markers.css">
<script src="https://cdn.jsdelivr.net/npm/leaflet@1.9.3/dist/leaflet.js"></script>
<script src="https://cdnjs.cloudflare.com/ajax/libs/Leaflet.awesome-markers/2.0.2/leaflet.awesome-markers.js"></script>
<style>
html, body { width: 100%; height: 100%; margin: 0; padding: 0; }
#map { position: absolute; top: 0; bottom: 0; right: 0; left: 0; }
</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map("map", {center: [{{.Center.Lat}}, {{.Center.Lon}}], zoom: {{.Zoom}}});
L.tileLayer("https://tile.openstreetmap.org/{z}/{x}/{y}.png", {
  maxZoom: 19,
  attribution: "&copy; OpenStreetMap contributors"
}).addTo(map);

var layers = {{.Layers}};
var overlays = {};
layers.forEach(function (layer) {
  var group = L.featureGroup();
  layer.markers.forEach(function (m) {
    L.marker([m.lat, m.lon], {
      icon: L.AwesomeMarkers.icon({icon: "info-sign", prefix: "glyphicon", markerColor: m.color, iconColor: "white"})
    }).bindPopup(m.popup, {maxWidth: {{.MaxWidth}}}).addTo(group);
  });
  if (layer.show) {
    group.addTo(map);
  }
  overlays[layer.label] = group;
});
L.control.layers(null, overlays, {collapsed: false, autoZIndex: false}).addTo(map);
</script>
</body>
</html>
`))
